package rules

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rtx/internal/config"
	"github.com/open-cli-collective/rtx/pkg/ruleset"
)

type exportOptions struct {
	rules   string
	format  string
	file    string
	builtin bool
	stdout  io.Writer
}

// NewCmdExport creates the rules export command.
func NewCmdExport() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the rule set as YAML or TOML",
		Long: `Write the active rule set, or the built-in one with --builtin, as a rule-set
file. The output can be edited and used with --rules or the rules config key.`,
		Example: `  # Start a custom rule set from the built-in one
  rtx rules export --builtin --file ~/.config/rtx/rules.yaml

  # Convert a rule set to TOML
  rtx rules export --rules forum.yaml --format toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.rules, _ = cmd.Flags().GetString("rules")
			opts.stdout = cmd.OutOrStdout()

			cfg, err := cmdutil.LoadConfig(cmd)
			if err != nil {
				return err
			}
			return runExport(opts, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "File format: yaml or toml (default: from --file extension, else yaml)")
	cmd.Flags().StringVar(&opts.file, "file", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.builtin, "builtin", false, "Export the built-in rule set, ignoring configuration")

	return cmd
}

func runExport(opts *exportOptions, cfg *config.Config) error {
	format := opts.format
	if format == "" {
		format = ruleset.FormatYAML
		if opts.file != "" {
			if f, err := ruleset.FormatFromPath(opts.file); err == nil {
				format = f
			}
		}
	}

	var (
		f   *ruleset.File
		err error
	)
	if opts.builtin {
		f, err = ruleset.Default()
	} else {
		effective := *cfg
		if opts.rules != "" {
			effective.Rules = opts.rules
		}
		f, err = effective.RuleSet()
	}
	if err != nil {
		return err
	}

	data, err := ruleset.Export(f, format)
	if err != nil {
		return err
	}

	if opts.file == "" {
		_, err = opts.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.file, data, 0644); err != nil {
		return fmt.Errorf("failed to write rule set: %w", err)
	}
	return nil
}
