package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rtx/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current rtx configuration with the source of each value.`,
		Example: `  # Show current config
  rtx config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(cmdutil.ConfigPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(configPath string, noColor bool, out io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, fallback string, envVars ...string) {
		_, _ = bold.Fprintf(out, "%-16s", label+":")
		if value == "" {
			if fallback != "" {
				_, _ = dim.Fprintf(out, "%s  (default)\n", fallback)
			} else {
				_, _ = dim.Fprintln(out, "-")
			}
			return
		}

		fmt.Fprint(out, value)

		source := "config"
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" {
				source = envVar
				break
			}
		}
		if source == "config" && (fileErr != nil || fileValue != value) {
			source = "-"
		}

		_, _ = dim.Fprintf(out, "  (source: %s)\n", source)
	}

	printField("Rules", cfg.Rules, fileCfg.Rules, "(built-in)", config.EnvRules)
	printField("Output format", cfg.OutputFormat, fileCfg.OutputFormat, "auto", config.EnvOutput)
	printField("Plugins", strings.Join(cfg.Plugins, ","), strings.Join(fileCfg.Plugins, ","), "(from rules)", config.EnvPlugins)
	printField("Max workers", workers(cfg.MaxWorkers), workers(fileCfg.MaxWorkers), strconv.Itoa(cfg.Workers()), config.EnvMaxWorkers)
	printField("Terminal style", cfg.TerminalStyle, fileCfg.TerminalStyle, "auto", config.EnvTerminalStyle, config.EnvGlamourStyle)

	fmt.Fprintln(out)
	_, _ = dim.Fprintf(out, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(out, "(file not found)")
	}

	return nil
}

func workers(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
