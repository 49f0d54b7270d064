package ruleset

import (
	_ "embed"
	"fmt"
)

//go:embed default.yaml
var defaultRuleSet []byte

// DefaultSource returns the built-in rule set as YAML.
func DefaultSource() string {
	return string(defaultRuleSet)
}

// Default returns a fresh copy of the built-in rule set: common BBCode tags,
// list handling, and the tags of every bundled plugin.
func Default() (*File, error) {
	f, err := Parse(defaultRuleSet, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("built-in rule set is invalid: %w", err)
	}
	return f, nil
}
