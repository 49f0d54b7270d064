// Package detag provides the detag command.
package detag

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rtx/pkg/markup"
)

// NewCmdDetag creates the detag command.
func NewCmdDetag() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detag [file]",
		Short: "Recover the original text from the tagged representation",
		Long: `Strip every element from the tagged XML produced by 'rtx parse' and print
the original input, byte for byte. Reads stdin when no file is given.`,
		Example: `  # Round trip
  rtx parse post.txt | rtx detag`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return runDetag(name, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runDetag(name string, stdin io.Reader, out io.Writer) error {
	ir, err := cmdutil.ReadInput(name, stdin)
	if err != nil {
		return err
	}
	text, err := markup.Detag(trimNewline(ir))
	if err != nil {
		return fmt.Errorf("failed to detag: %w", err)
	}
	_, err = io.WriteString(out, text)
	return err
}

// trimNewline drops the line break `rtx parse` prints after the document.
func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
		if n := len(s); n > 0 && s[n-1] == '\r' {
			s = s[:n-1]
		}
	}
	return s
}
