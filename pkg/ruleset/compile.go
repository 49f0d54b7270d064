package ruleset

import (
	"fmt"
	"strings"

	"github.com/open-cli-collective/rtx/pkg/markup"
	"github.com/open-cli-collective/rtx/pkg/plugins"
)

// Compile turns f into a frozen markup configuration. Tags are declared
// first, then their rules, then plugins, so plugins only add the tags the file
// does not define itself.
func Compile(f *File) (*markup.Config, error) {
	b := markup.NewBuilder()

	for _, td := range f.Tags {
		if err := b.AddTag(td.tagConfig()); err != nil {
			return nil, err
		}
	}
	for _, td := range f.Tags {
		for _, rd := range td.Rules {
			if err := addRule(b, td.Name, rd); err != nil {
				return nil, err
			}
		}
	}
	for _, pd := range f.Plugins {
		p, err := newPlugin(pd)
		if err != nil {
			return nil, err
		}
		if err := b.AddPlugin(p); err != nil {
			return nil, err
		}
	}

	return b.Finalize()
}

func addRule(b *markup.Builder, target string, rd RuleDef) error {
	kind, err := markup.ParseRuleKind(rd.Kind)
	if err != nil {
		return &markup.ConfigError{
			Tag:     strings.ToUpper(target),
			Message: err.Error(),
			Err:     markup.ErrInvalidOperand,
		}
	}
	if kind != markup.TagLimitCounter {
		return b.AddRule(target, kind, rd.Names...)
	}
	if len(rd.Names) == 0 {
		return b.AddTagLimit(target, "", rd.Limit)
	}
	for _, name := range rd.Names {
		if err := b.AddTagLimit(target, name, rd.Limit); err != nil {
			return err
		}
	}
	return nil
}

func newPlugin(pd PluginDef) (markup.Plugin, error) {
	if strings.EqualFold(pd.Name, plugins.AutolinkName) && len(pd.Schemes) > 0 {
		return plugins.NewAutolink(pd.Schemes...), nil
	}
	p, err := plugins.Lookup(pd.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid plugin list: %w", err)
	}
	return p, nil
}

// FromConfig rebuilds a File from a compiled configuration, for inspection
// and export. HTML mappings are not part of a Config and are taken from
// html when given.
func FromConfig(cfg *markup.Config, html *File) *File {
	f := &File{}
	for _, name := range cfg.TagNames() {
		tc, _ := cfg.Tag(name)
		td := TagDef{
			Name:             strings.ToLower(tc.Name),
			Aliases:          lowerAll(tc.Aliases),
			DefaultAttribute: tc.DefaultAttribute,
			TagLimit:         tc.TagLimit,
			NestingLimit:     tc.NestingLimit,
			AutoReopen:       tc.AutoReopen,
			Void:             tc.Void,
		}
		for _, a := range tc.Attributes {
			td.Attributes = append(td.Attributes, AttributeDef{Name: a.Name, Required: a.Required, Default: a.Default})
		}
		for _, r := range cfg.Rules(name) {
			td.Rules = append(td.Rules, RuleDef{Kind: r.Kind.String(), Names: lowerAll(r.Names), Limit: r.Limit})
		}
		if html != nil {
			if src, ok := html.Tag(name); ok {
				td.HTML = src.HTML
			}
		}
		f.Tags = append(f.Tags, td)
	}
	for _, p := range cfg.Plugins() {
		def := PluginDef{Name: p.Name()}
		if a, ok := p.(*plugins.Autolink); ok {
			def.Schemes = append([]string(nil), a.Schemes...)
		}
		f.Plugins = append(f.Plugins, def)
	}
	return f
}

func lowerAll(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	return out
}
