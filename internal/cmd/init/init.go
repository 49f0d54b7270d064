// Package init provides the init command for rtx.
package init

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rtx/internal/config"
	"github.com/open-cli-collective/rtx/pkg/plugins"
	"github.com/open-cli-collective/rtx/pkg/render"
	"github.com/open-cli-collective/rtx/pkg/ruleset"
)

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		rules    string
		format   string
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize rtx configuration",
		Long: `Initialize rtx interactively.

This command asks for the rule-set file to parse with, the default render
format, the plugins to enable and how many files to parse at once. The
configuration is saved to ~/.config/rtx/config.yml.

Leave the rule-set file empty to use the built-in rules. Run
'rtx rules export --builtin' to get a copy to start from.`,
		Example: `  # Interactive setup
  rtx init

  # Pre-populate the rule set
  rtx init --rules ~/.config/rtx/forum.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmdutil.ConfigPath(cmd), rules, format, noVerify, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&rules, "rules", "", "Rule-set file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&format, "format", "", "Default render format: "+render.FormatNames())
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip rule-set verification")

	return cmd
}

func runInit(configPath, prefillRules, prefillFormat string, noVerify bool, out io.Writer) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		Rules:        prefillRules,
		OutputFormat: prefillFormat,
		Plugins:      plugins.Names(),
	}
	workers := ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Rule-set file (optional)").
				Description("YAML or TOML file; empty uses the built-in rules").
				Placeholder("~/.config/rtx/rules.yaml").
				Value(&cfg.Rules).
				Validate(validateRulesPath),

			huh.NewSelect[string]().
				Title("Render format").
				Description("Used by 'rtx render' when --format is not given").
				Options(formatOptions()...).
				Value(&cfg.OutputFormat),

			huh.NewMultiSelect[string]().
				Title("Plugins").
				Description("Tag sources run on every parse").
				Options(huh.NewOptions(plugins.Names()...)...).
				Value(&cfg.Plugins),

			huh.NewInput().
				Title("Max workers (optional)").
				Description("Files parsed concurrently; empty uses one per CPU").
				Placeholder(strconv.Itoa(cfg.Workers())).
				Value(&workers).
				Validate(validateWorkers),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Rules = expandHome(strings.TrimSpace(cfg.Rules))
	if n, err := strconv.Atoi(strings.TrimSpace(workers)); err == nil {
		cfg.MaxWorkers = n
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !noVerify {
		fmt.Fprint(out, "Verifying rule set... ")
		tags, err := verifyRules(cfg)
		if err != nil {
			fmt.Fprintln(out, "failed!")
			return fmt.Errorf("rule set verification failed: %w", err)
		}
		fmt.Fprintf(out, "%d tags.\n", tags)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(out, "\nYou're all set! Try running:")
	fmt.Fprintln(out, "  echo '[b]hello[/b]' | rtx parse")
	fmt.Fprintln(out, "  rtx rules list")

	return nil
}

// verifyRules compiles the configured rule set and returns its tag count.
func verifyRules(cfg *config.Config) (int, error) {
	engine, err := cmdutil.NewEngine(cfg, cmdutil.EngineOptions{})
	if err != nil {
		return 0, err
	}
	return len(engine.Config.TagNames()), nil
}

func formatOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("auto (terminal or html)", "")}
	for _, f := range render.Formats {
		opts = append(opts, huh.NewOption(string(f), string(f)))
	}
	return opts
}

func validateRulesPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := ruleset.FormatFromPath(s); err != nil {
		return err
	}
	if _, err := os.Stat(expandHome(s)); err != nil {
		return fmt.Errorf("rule-set file not found: %s", s)
	}
	return nil
}

func validateWorkers(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return errors.New("max workers must be a positive number")
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}
