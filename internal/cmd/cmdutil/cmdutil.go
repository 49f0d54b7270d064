// Package cmdutil holds the plumbing shared by rtx commands: loading the
// configuration, building a parser and reading input.
package cmdutil

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/config"
	"github.com/open-cli-collective/rtx/pkg/markup"
	"github.com/open-cli-collective/rtx/pkg/ruleset"
)

// ConfigPath returns the --config flag value or the default path.
func ConfigPath(cmd *cobra.Command) string {
	if cmd != nil {
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			return path
		}
	}
	return config.DefaultConfigPath()
}

// LoadConfig loads the configuration file with environment overrides and
// validates it.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadWithEnv(ConfigPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'rtx init' to configure)", err)
	}
	return cfg, nil
}

// Engine is a compiled rule set ready to parse.
type Engine struct {
	Rules  *ruleset.File
	Config *markup.Config
	Parser *markup.Parser
}

// EngineOptions adjusts the rule set before it is compiled.
type EngineOptions struct {
	RulesPath      string   // overrides the configured rule set
	Plugins        []string // overrides the configured plugin selection
	DisablePlugins []string
	NoBBCode       bool
}

// NewEngine loads and compiles the rule set selected by cfg and opts.
func NewEngine(cfg *config.Config, opts EngineOptions) (*Engine, error) {
	effective := *cfg
	if opts.RulesPath != "" {
		effective.Rules = opts.RulesPath
	}
	if opts.Plugins != nil {
		effective.Plugins = opts.Plugins
	}

	rules, err := effective.RuleSet()
	if err != nil {
		return nil, err
	}
	compiled, err := ruleset.Compile(rules)
	if err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}

	var parserOpts []markup.Option
	if len(opts.DisablePlugins) > 0 {
		parserOpts = append(parserOpts, markup.WithoutPlugins(opts.DisablePlugins...))
	}
	if opts.NoBBCode {
		parserOpts = append(parserOpts, markup.WithoutBBCode())
	}

	return &Engine{
		Rules:  rules,
		Config: compiled,
		Parser: markup.NewParser(compiled, parserOpts...),
	}, nil
}

// ReadInput reads the named file, or stdin when name is empty or "-".
func ReadInput(name string, stdin io.Reader) (string, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
