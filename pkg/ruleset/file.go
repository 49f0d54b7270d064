// Package ruleset reads, writes and compiles rule-set files: declarative
// YAML or TOML descriptions of tags, their rules, plugins and HTML output.
package ruleset

import (
	"strings"

	"github.com/open-cli-collective/rtx/pkg/markup"
	"github.com/open-cli-collective/rtx/pkg/render"
)

// File is the on-disk form of a rule set.
type File struct {
	Tags    []TagDef    `koanf:"tags" json:"tags" yaml:"tags" toml:"tags"`
	Plugins []PluginDef `koanf:"plugins" json:"plugins,omitempty" yaml:"plugins,omitempty" toml:"plugins,omitempty"`
}

// TagDef declares a tag.
type TagDef struct {
	Name             string         `koanf:"name" json:"name" yaml:"name" toml:"name"`
	Aliases          []string       `koanf:"aliases" json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	DefaultAttribute string         `koanf:"default_attribute" json:"default_attribute,omitempty" yaml:"default_attribute,omitempty" toml:"default_attribute,omitempty"`
	Attributes       []AttributeDef `koanf:"attributes" json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	TagLimit         int            `koanf:"tag_limit" json:"tag_limit,omitempty" yaml:"tag_limit,omitempty" toml:"tag_limit,omitempty"`
	NestingLimit     int            `koanf:"nesting_limit" json:"nesting_limit,omitempty" yaml:"nesting_limit,omitempty" toml:"nesting_limit,omitempty"`
	AutoReopen       bool           `koanf:"auto_reopen" json:"auto_reopen,omitempty" yaml:"auto_reopen,omitempty" toml:"auto_reopen,omitempty"`
	Void             bool           `koanf:"void" json:"void,omitempty" yaml:"void,omitempty" toml:"void,omitempty"`
	Rules            []RuleDef      `koanf:"rules" json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules,omitempty"`
	HTML             *HTMLDef       `koanf:"html" json:"html,omitempty" yaml:"html,omitempty" toml:"html,omitempty"`
}

// AttributeDef declares an attribute of a tag.
type AttributeDef struct {
	Name     string `koanf:"name" json:"name" yaml:"name" toml:"name"`
	Required bool   `koanf:"required" json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	Default  string `koanf:"default" json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
}

// RuleDef attaches a rule to the enclosing tag. Kind is a snake_case rule
// name such as "close_parent"; Limit is only read for "tag_limit".
type RuleDef struct {
	Kind  string   `koanf:"kind" json:"kind" yaml:"kind" toml:"kind"`
	Names []string `koanf:"names" json:"names" yaml:"names" toml:"names"`
	Limit int      `koanf:"limit" json:"limit,omitempty" yaml:"limit,omitempty" toml:"limit,omitempty"`
}

// HTMLDef describes the HTML form of a tag.
type HTMLDef struct {
	Element       string            `koanf:"element" json:"element,omitempty" yaml:"element,omitempty" toml:"element,omitempty"`
	Attributes    map[string]string `koanf:"attributes" json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	Styles        map[string]string `koanf:"styles" json:"styles,omitempty" yaml:"styles,omitempty" toml:"styles,omitempty"`
	TextAttribute string            `koanf:"text_attribute" json:"text_attribute,omitempty" yaml:"text_attribute,omitempty" toml:"text_attribute,omitempty"`
}

// PluginDef enables a plugin by registry name.
type PluginDef struct {
	Name    string   `koanf:"name" json:"name" yaml:"name" toml:"name"`
	Schemes []string `koanf:"schemes" json:"schemes,omitempty" yaml:"schemes,omitempty" toml:"schemes,omitempty"`
}

// Tag returns the definition of a tag, matched case-insensitively.
func (f *File) Tag(name string) (*TagDef, bool) {
	for i := range f.Tags {
		if strings.EqualFold(f.Tags[i].Name, name) {
			return &f.Tags[i], true
		}
	}
	return nil, false
}

// PluginNames returns the names of the enabled plugins, in order.
func (f *File) PluginNames() []string {
	names := make([]string, len(f.Plugins))
	for i, p := range f.Plugins {
		names[i] = p.Name
	}
	return names
}

// SelectPlugins replaces the plugin list with names, keeping the options of
// plugins that were already configured.
func (f *File) SelectPlugins(names []string) {
	selected := make([]PluginDef, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		def := PluginDef{Name: name}
		for _, p := range f.Plugins {
			if strings.EqualFold(p.Name, name) {
				def = p
				break
			}
		}
		selected = append(selected, def)
	}
	f.Plugins = selected
}

// HTMLMapping collects the HTML form of every tag that declares one.
func (f *File) HTMLMapping() render.HTMLMapping {
	mapping := make(render.HTMLMapping)
	for _, td := range f.Tags {
		if td.HTML == nil {
			continue
		}
		mapping[strings.ToUpper(td.Name)] = render.ElementMapping{
			Element:       td.HTML.Element,
			Attributes:    td.HTML.Attributes,
			Styles:        td.HTML.Styles,
			TextAttribute: td.HTML.TextAttribute,
		}
	}
	return mapping
}

func (td TagDef) tagConfig() markup.TagConfig {
	tc := markup.TagConfig{
		Name:             td.Name,
		Aliases:          td.Aliases,
		DefaultAttribute: td.DefaultAttribute,
		TagLimit:         td.TagLimit,
		NestingLimit:     td.NestingLimit,
		AutoReopen:       td.AutoReopen,
		Void:             td.Void,
	}
	for _, a := range td.Attributes {
		tc.Attributes = append(tc.Attributes, markup.AttributeConfig{
			Name:     a.Name,
			Required: a.Required,
			Default:  a.Default,
		})
	}
	return tc
}
