// Package root provides the root command for the rtx CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/cmd/completion"
	"github.com/open-cli-collective/rtx/internal/cmd/configcmd"
	"github.com/open-cli-collective/rtx/internal/cmd/detag"
	initcmd "github.com/open-cli-collective/rtx/internal/cmd/init"
	"github.com/open-cli-collective/rtx/internal/cmd/parse"
	"github.com/open-cli-collective/rtx/internal/cmd/render"
	"github.com/open-cli-collective/rtx/internal/cmd/rules"
	"github.com/open-cli-collective/rtx/internal/logging"
	"github.com/open-cli-collective/rtx/internal/version"
)

// NewCmdRoot creates the root command for rtx.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rtx",
		Short: "Parse and render BBCode-style markup",
		Long: `rtx parses text carrying BBCode markup into a tagged XML representation,
and renders that representation as HTML, markdown, or styled terminal text.

Tags, their attributes and their nesting rules come from a rule set. The
built-in set covers common forum markup; run 'rtx rules export --builtin'
for a copy to customize.

Get started by running: rtx init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			toFile, _ := cmd.Flags().GetBool("log-file")
			logging.SetupLogger(verbosity, toFile)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/rtx/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v, -vv, -vvv)")
	cmd.PersistentFlags().Bool("log-file", false, "also write logs to "+logging.LogFilePath())

	cmd.SetVersionTemplate(version.Template())

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(parse.NewCmdParse())
	cmd.AddCommand(detag.NewCmdDetag())
	cmd.AddCommand(render.NewCmdRender())
	cmd.AddCommand(rules.NewCmdRules())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	completion.RegisterFlags(cmd)

	return cmd
}
