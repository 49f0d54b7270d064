// Package completion provides shell completion generation commands and
// value completions for rtx flags.
package completion

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtx/internal/view"
	"github.com/open-cli-collective/rtx/pkg/plugins"
	"github.com/open-cli-collective/rtx/pkg/render"
	"github.com/open-cli-collective/rtx/pkg/ruleset"
)

// shell describes one supported shell.
type shell struct {
	name    string
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name: "bash",
		install: `  # Load in current session
  source <(rtx completion bash)

  # Install permanently (Linux)
  rtx completion bash | sudo tee /etc/bash_completion.d/rtx > /dev/null

  # Install permanently (macOS with Homebrew)
  rtx completion bash > $(brew --prefix)/etc/bash_completion.d/rtx`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletion(w) },
	},
	{
		name: "zsh",
		install: `  # Enable completion once, if not already done
  echo "autoload -U compinit; compinit" >> ~/.zshrc

  # Load in current session
  source <(rtx completion zsh)

  # Install permanently
  rtx completion zsh > "${fpath[1]}/_rtx"`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		name: "fish",
		install: `  # Load in current session
  rtx completion fish | source

  # Install permanently
  rtx completion fish > ~/.config/fish/completions/rtx.fish`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		name: "powershell",
		install: `  # Load in current session
  rtx completion powershell | Out-String | Invoke-Expression

  # Install permanently
  rtx completion powershell >> $PROFILE`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rtx.

These scripts enable tab-completion for commands, flags, and arguments.
See each sub-command's help for installation instructions.`,
	}

	for _, sh := range shells {
		cmd.AddCommand(newCmdShell(sh))
	}

	return cmd
}

func newCmdShell(sh shell) *cobra.Command {
	return &cobra.Command{
		Use:                   sh.name,
		Short:                 "Generate " + sh.name + " completion script",
		Long:                  "Generate " + sh.name + " completion script for rtx.",
		Example:               sh.install,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sh.gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}

type completeFunc func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)

// RegisterFlags walks the command tree below root and attaches value
// completions to the rtx flags each command declares.
func RegisterFlags(root *cobra.Command) {
	var formats []string
	for _, f := range render.Formats {
		formats = append(formats, string(f))
	}

	register := func(cmd *cobra.Command, name string, fn completeFunc) {
		if cmd.LocalFlags().Lookup(name) == nil {
			return
		}
		_ = cmd.RegisterFlagCompletionFunc(name, fn)
	}

	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		register(cmd, "output", fixed(view.ValidFormats()))
		register(cmd, "disable-plugin", fixed(plugins.Names()))
		register(cmd, "rules", rulesFile)
		switch cmd.Name() {
		case "render", "init":
			register(cmd, "format", fixed(formats))
		case "export":
			register(cmd, "format", fixed([]string{ruleset.FormatYAML, ruleset.FormatTOML}))
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}

// fixed completes from a closed set of values.
func fixed(values []string) completeFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

func rulesFile(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt
}
