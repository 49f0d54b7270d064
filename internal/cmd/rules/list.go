package rules

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rtx/internal/config"
	"github.com/open-cli-collective/rtx/internal/view"
	"github.com/open-cli-collective/rtx/pkg/markup"
	"github.com/open-cli-collective/rtx/pkg/ruleset"
)

type listOptions struct {
	rules   string
	output  string
	noColor bool
	stdout  io.Writer
}

// NewCmdList creates the rules list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags and their rules",
		Long:    `List every tag of the compiled rule set with its aliases, options and rules, followed by the enabled plugins.`,
		Example: `  # Built-in rules
  rtx rules list

  # A custom rule set as JSON
  rtx rules list --rules forum.yaml -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.rules, _ = cmd.Flags().GetString("rules")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()

			cfg, err := cmdutil.LoadConfig(cmd)
			if err != nil {
				return err
			}
			return runList(opts, cfg)
		},
	}

	return cmd
}

func runList(opts *listOptions, cfg *config.Config) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	engine, err := cmdutil.NewEngine(cfg, cmdutil.EngineOptions{RulesPath: opts.rules})
	if err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(ruleset.FromConfig(engine.Config, engine.Rules))
	}

	renderer.RenderTable([]string{"TAG", "ALIASES", "OPTIONS", "RULES"}, tagRows(engine.Config))

	if renderer.Format() == view.FormatTable {
		plugins := make([]string, 0, len(engine.Config.Plugins()))
		for _, p := range engine.Config.Plugins() {
			plugins = append(plugins, p.Name())
		}
		renderer.RenderText("")
		if len(plugins) == 0 {
			renderer.RenderKeyValue("Plugins", "-")
		} else {
			renderer.RenderKeyValue("Plugins", strings.Join(plugins, ", "))
		}
	}
	return nil
}

func tagRows(cfg *markup.Config) [][]string {
	var rows [][]string
	for _, name := range cfg.TagNames() {
		tc, _ := cfg.Tag(name)
		var rules []string
		for _, r := range cfg.Rules(name) {
			rules = append(rules, r.String())
		}
		rows = append(rows, []string{
			name,
			strings.Join(tc.Aliases, ","),
			tagOptions(tc),
			strings.Join(rules, "; "),
		})
	}
	return rows
}

func tagOptions(tc markup.TagConfig) string {
	var opts []string
	if tc.DefaultAttribute != "" {
		opts = append(opts, "default="+tc.DefaultAttribute)
	}
	for _, a := range tc.Attributes {
		switch {
		case a.Required:
			opts = append(opts, "@"+a.Name+"!")
		case a.Default != "":
			opts = append(opts, "@"+a.Name+"="+a.Default)
		}
	}
	if tc.TagLimit > 0 {
		opts = append(opts, "tag_limit="+strconv.Itoa(tc.TagLimit))
	}
	if tc.NestingLimit > 0 {
		opts = append(opts, "nesting_limit="+strconv.Itoa(tc.NestingLimit))
	}
	if tc.AutoReopen {
		opts = append(opts, "auto_reopen")
	}
	if tc.Void {
		opts = append(opts, "void")
	}
	return strings.Join(opts, " ")
}
