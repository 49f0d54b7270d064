// Package render provides the render command.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rtx/internal/config"
	"github.com/open-cli-collective/rtx/pkg/markup"
	rtxrender "github.com/open-cli-collective/rtx/pkg/render"
)

type renderOptions struct {
	rules  string
	format string
	ir     bool
	width  int
	style  string

	stdin    io.Reader
	stdout   io.Writer
	terminal bool
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markup as HTML, Markdown or terminal output",
		Long: `Parse markup and render the result. Tags are mapped to HTML through the
html section of the rule set; markdown and terminal output are derived from
the HTML. The ansi format styles the text directly.

Without --format, the configured output_format is used, then "terminal"
when stdout is a terminal and "html" otherwise.`,
		Example: `  # HTML
  echo '[b]hi[/b] http://example.com' | rtx render --format html

  # Render an existing tagged document
  rtx parse post.txt > post.xml && rtx render --ir post.xml -f markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.terminal = cmdutil.IsTerminal(opts.stdout)

			cfg, err := cmdutil.LoadConfig(cmd)
			if err != nil {
				return err
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return runRender(name, opts, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.rules, "rules", "r", "", "Rule-set file (default: configured rules or the built-in set)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: "+rtxrender.FormatNames())
	cmd.Flags().BoolVar(&opts.ir, "ir", false, "Input is already the tagged XML representation")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Word wrap width for terminal output")
	cmd.Flags().StringVar(&opts.style, "style", "", "Terminal style: auto, dark, light, notty or a style file")

	return cmd
}

func runRender(name string, opts *renderOptions, cfg *config.Config) error {
	format, err := resolveFormat(opts.format, cfg.OutputFormat, opts.terminal)
	if err != nil {
		return err
	}

	engine, err := cmdutil.NewEngine(cfg, cmdutil.EngineOptions{RulesPath: opts.rules})
	if err != nil {
		return err
	}

	input, err := cmdutil.ReadInput(name, opts.stdin)
	if err != nil {
		return err
	}

	ir := strings.TrimRight(input, "\r\n")
	if !opts.ir {
		res, err := engine.Parser.Parse(input)
		if err != nil {
			return err
		}
		ir = res.XML
	} else if _, err := markup.Detag(ir); err != nil {
		return fmt.Errorf("input is not a tagged document: %w", err)
	}

	style := opts.style
	if style == "" {
		style = cfg.TerminalStyle
	}
	out, err := rtxrender.Render(ir, format, rtxrender.Options{
		Mapping:  engine.Rules.HTMLMapping(),
		Terminal: rtxrender.TerminalOptions{Style: style, Width: opts.width},
	})
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(opts.stdout, out)
	return err
}

// resolveFormat picks the flag value, then the configured format, then a
// default that depends on whether output goes to a terminal.
func resolveFormat(flag, configured string, terminal bool) (rtxrender.Format, error) {
	switch {
	case flag != "":
		return rtxrender.ParseFormat(flag)
	case configured != "":
		return rtxrender.ParseFormat(configured)
	case terminal:
		return rtxrender.FormatTerminal, nil
	}
	return rtxrender.FormatHTML, nil
}
