package configcmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rtx/internal/config"
	"github.com/open-cli-collective/rtx/internal/view"
)

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long: `Delete the rtx settings file. A rule-set file it pointed to is left in
place; commands fall back to the built-in rules unless RTX_RULES is set.`,
		Example: `  # Clear config
  rtx config clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runClear(cmdutil.ConfigPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runClear(configPath string, noColor bool, out io.Writer) error {
	renderer := view.NewRenderer(view.FormatTable, noColor)
	renderer.SetWriter(out)

	// Read before removing so the referenced rule set can be reported.
	previous, loadErr := config.Load(configPath)

	err := os.Remove(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}
	if os.IsNotExist(err) {
		renderer.Success("No config file to remove")
	} else {
		renderer.Success("Configuration cleared from " + configPath)
	}

	active := config.ActiveEnvVars()
	if loadErr == nil && previous.Rules != "" {
		next := "the built-in rules"
		if rules := os.Getenv(config.EnvRules); rules != "" {
			next = rules + " (" + config.EnvRules + ")"
		}
		renderer.RenderText(fmt.Sprintf("Rule set %s was kept on disk; parsing now uses %s.", previous.Rules, next))
	}
	if len(active) > 0 {
		renderer.Warning("Environment variables still apply: " + strings.Join(active, ", "))
	}

	return nil
}
