package rules

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/view"
	"github.com/open-cli-collective/rtx/pkg/markup"
	"github.com/open-cli-collective/rtx/pkg/ruleset"
)

// NewCmdCheck creates the rules check command.
func NewCmdCheck() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check <file>",
		Short:   "Validate a rule-set file",
		Long:    `Load and compile a rule-set file and report the first problem found.`,
		Example: `  rtx rules check forum.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runCheck(args[0], noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runCheck(path string, noColor bool, out io.Writer) error {
	renderer := view.NewRenderer(view.FormatTable, noColor)
	renderer.SetWriter(out)

	f, err := ruleset.Load(path)
	if err != nil {
		renderer.Error(err.Error())
		return err
	}

	cfg, err := ruleset.Compile(f)
	if err != nil {
		var cerr *markup.ConfigError
		if errors.As(err, &cerr) {
			renderer.Error(fmt.Sprintf("tag %s: %s", cerr.Tag, cerr.Message))
		} else {
			renderer.Error(err.Error())
		}
		return fmt.Errorf("invalid rule set %s: %w", path, err)
	}

	var rules int
	for _, name := range cfg.TagNames() {
		rules += len(cfg.Rules(name))
	}
	renderer.Success(fmt.Sprintf("%s: %d tags, %d rules, %d plugins", path, len(cfg.TagNames()), rules, len(cfg.Plugins())))
	return nil
}
