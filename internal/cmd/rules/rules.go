// Package rules provides commands for inspecting and exporting rule sets.
package rules

import (
	"github.com/spf13/cobra"
)

// NewCmdRules creates the rules command.
func NewCmdRules() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"rule"},
		Short:   "Inspect rule sets",
		Long:    `Commands for listing, exporting, and checking the tag rule set rtx parses with.`,
	}

	cmd.PersistentFlags().StringP("rules", "r", "", "Rule-set file (default: configured rules or the built-in set)")

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdExport())
	cmd.AddCommand(NewCmdCheck())

	return cmd
}
