// Package plugins provides tag sources that detect patterns in plain text,
// such as bare URLs or HTML entities, and hand them to the markup resolver.
package plugins

import (
	"fmt"
	"sort"
	"strings"

	"github.com/open-cli-collective/rtx/pkg/markup"
)

// Factory creates a fresh plugin with its default options.
type Factory func() markup.Plugin

// Registry maps plugin names to their factories.
// Adding a new plugin = adding one entry here.
var Registry = map[string]Factory{
	AutolinkName:     func() markup.Plugin { return NewAutolink() },
	HTMLEntitiesName: func() markup.Plugin { return NewHTMLEntities() },
	EscaperName:      func() markup.Plugin { return NewEscaper() },
	LitedownName:     func() markup.Plugin { return NewLitedown() },
}

// Lookup creates the plugin registered under name (case-insensitive).
func Lookup(name string) (markup.Plugin, error) {
	factory, ok := Registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", markup.ErrUnknownPlugin, name)
	}
	return factory(), nil
}

// Names returns the registered plugin names, sorted.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// addTagIfMissing declares tc unless the rule set already has the tag, in
// which case the existing definition wins.
func addTagIfMissing(b *markup.Builder, tc markup.TagConfig) (bool, error) {
	if b.HasTag(tc.Name) {
		return false, nil
	}
	return true, b.AddTag(tc)
}
