// rules.go defines the declarative nesting rules attached to tags.
package markup

import (
	"fmt"
	"strings"
)

// RuleKind enumerates the closed set of rule kinds.
type RuleKind uint8

const (
	// RequireParent accepts the target only directly inside one of the operand tags.
	RequireParent RuleKind = iota + 1
	// RequireAscendant accepts the target only somewhere inside one of the operand tags.
	RequireAscendant
	// DenyChild forbids the operand tags as direct children of the target.
	DenyChild
	// DenyDescendant forbids the operand tags anywhere inside the target.
	DenyDescendant
	// CloseParent closes an open operand tag sitting directly on top of the stack.
	CloseParent
	// CloseAscendant closes the nearest open operand tag and everything above it.
	CloseAscendant
	// AllowChildSubset restricts the direct children of the target to the operand tags.
	AllowChildSubset
	// TagLimitCounter caps how many operand tags may be opened inside the target.
	TagLimitCounter

	ruleKindCount = iota + 1
)

var ruleKindNames = [ruleKindCount]string{
	"",
	"require_parent",
	"require_ascendant",
	"deny_child",
	"deny_descendant",
	"close_parent",
	"close_ascendant",
	"allow_child_subset",
	"tag_limit",
}

// String returns the snake_case name used in rule-set files.
func (k RuleKind) String() string {
	if int(k) < len(ruleKindNames) && k != 0 {
		return ruleKindNames[k]
	}
	return fmt.Sprintf("rule(%d)", k)
}

// ParseRuleKind converts a rule-set file name into a RuleKind.
// "deny" is accepted as a shorthand for deny_child.
func ParseRuleKind(s string) (RuleKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "deny" {
		return DenyChild, nil
	}
	for i, name := range ruleKindNames {
		if i > 0 && name == s {
			return RuleKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rule kind %q", s)
}

// appliesToCandidate reports whether the rule constrains its target when the
// target itself is the candidate, as opposed to constraining the target's content.
func (k RuleKind) appliesToCandidate() bool {
	switch k {
	case RequireParent, RequireAscendant, CloseParent, CloseAscendant:
		return true
	}
	return false
}

// Rule is one compiled constraint.
type Rule struct {
	Target string   // tag the rule is attached to
	Kind   RuleKind
	Names  []string // operand tag names
	Limit  int      // operand for TagLimitCounter
}

// has reports whether name is one of the rule's operand names.
func (r Rule) has(name string) bool {
	for _, n := range r.Names {
		if n == name {
			return true
		}
	}
	return false
}

// String renders the rule in the form used by `rules list`.
func (r Rule) String() string {
	if r.Kind == TagLimitCounter {
		return fmt.Sprintf("%s(%s, %s, %d)", r.Kind, r.Target, strings.Join(r.Names, "|"), r.Limit)
	}
	return fmt.Sprintf("%s(%s, %s)", r.Kind, r.Target, strings.Join(r.Names, "|"))
}
