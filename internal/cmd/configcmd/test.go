package configcmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rtx/internal/config"
)

// sampleInput exercises tags, an alias and a plugin.
const sampleInput = "[b]bold[/b] [list][*]item[/list] http://example.com"

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check that the configured rule set loads and parses",
		Long:  `Load the configuration, compile the configured rule set and parse a sample text with it.`,
		Example: `  # Test the configuration
  rtx config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			cfg, err := config.LoadWithEnv(cmdutil.ConfigPath(cmd))
			if err != nil {
				return err
			}
			return runTest(cfg, noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTest(cfg *config.Config, noColor bool, out io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if err := cfg.Validate(); err != nil {
		_, _ = red.Fprintln(out, "✗ Invalid configuration:", err)
		fmt.Fprintln(out, "\nReconfigure with: rtx init")
		return fmt.Errorf("invalid config: %w", err)
	}
	_, _ = green.Fprintln(out, "✓ Configuration is valid")

	source := cfg.Rules
	if source == "" {
		source = "built-in rules"
	}
	engine, err := cmdutil.NewEngine(cfg, cmdutil.EngineOptions{})
	if err != nil {
		_, _ = red.Fprintf(out, "✗ Rule set %s failed to load: %v\n", source, err)
		fmt.Fprintln(out, "\nCheck the file with: rtx rules check <file>")
		return fmt.Errorf("rule set failed to load: %w", err)
	}
	_, _ = green.Fprintf(out, "✓ Rule set loaded from %s (%d tags)\n", source, len(engine.Config.TagNames()))

	res, err := engine.Parser.Parse(sampleInput)
	if err != nil {
		_, _ = red.Fprintln(out, "✗ Sample parse failed:", err)
		return fmt.Errorf("sample parse failed: %w", err)
	}
	_, _ = green.Fprintln(out, "✓ Sample text parsed")
	fmt.Fprintf(out, "\n%s\n", res.XML)

	return nil
}
