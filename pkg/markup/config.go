// config.go builds and freezes the rule set shared by every parse.
package markup

import (
	"fmt"
	"sort"
	"strings"
)

// AttributeConfig declares an attribute a tag understands.
type AttributeConfig struct {
	Name     string
	Required bool   // tags missing a required attribute are dropped
	Default  string // value used when the attribute is absent
}

// TagConfig declares a tag and its tag-wide options.
type TagConfig struct {
	Name             string
	Aliases          []string // alternative markup names, e.g. "*" for LI
	DefaultAttribute string   // attribute receiving [name=value]; defaults to the tag name
	Attributes       []AttributeConfig
	TagLimit         int  // max accepted instances per document, 0 = unlimited
	NestingLimit     int  // max simultaneously open instances, 0 = unlimited
	AutoReopen       bool // reopen after being closed by an ancestor's end tag
	Void             bool // never has content: [img=x] is read as [img=x/]
}

// Plugin is an external tag source. Plugins emit tags; they never evaluate rules.
type Plugin interface {
	// Name returns the registry name of the plugin, e.g. "autolink".
	Name() string
	// Setup declares the tags the plugin emits, if the builder lacks them.
	Setup(b *Builder) error
	// Parse scans text and returns tag candidates.
	Parse(text string) []*Tag
}

// Builder accumulates tags, rules and plugins. Finalize turns it into a
// read-only Config; the builder rejects changes afterwards.
type Builder struct {
	tags    map[string]*TagConfig
	order   []string
	aliases map[string]string
	rules   []Rule
	plugins []Plugin
	frozen  bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		tags:    make(map[string]*TagConfig),
		aliases: make(map[string]string),
	}
}

// AddTag declares a tag.
func (b *Builder) AddTag(tc TagConfig) error {
	if b.frozen {
		return ErrFrozen
	}
	name := strings.ToUpper(tc.Name)
	if !isValidTagName(name) {
		return newConfigError(ErrInvalidName, tc.Name, 0, "tag names must start with a letter and contain only letters, digits, '-' and '_'")
	}
	if _, exists := b.tags[name]; exists {
		return newConfigError(ErrDuplicateTag, name, 0, "tag is already defined")
	}
	if tc.TagLimit < 0 || tc.NestingLimit < 0 {
		return newConfigError(ErrInvalidOperand, name, 0, "limits cannot be negative")
	}
	tc.Name = name
	tc.DefaultAttribute = strings.ToLower(tc.DefaultAttribute)
	aliases := tc.Aliases
	tc.Aliases = nil
	b.tags[name] = &tc
	b.order = append(b.order, name)

	for _, alias := range aliases {
		if err := b.AddAlias(name, alias); err != nil {
			return err
		}
	}
	return nil
}

// HasTag reports whether a tag is declared.
func (b *Builder) HasTag(name string) bool {
	_, ok := b.tags[strings.ToUpper(name)]
	return ok
}

// AddAlias lets markup refer to tag by another name.
func (b *Builder) AddAlias(tag, alias string) error {
	if b.frozen {
		return ErrFrozen
	}
	tag = strings.ToUpper(tag)
	alias = strings.ToUpper(alias)
	if !isValidAlias(alias) {
		return newConfigError(ErrInvalidName, tag, 0, "invalid alias %q", alias)
	}
	if existing, ok := b.aliases[alias]; ok && existing != tag {
		return newConfigError(ErrDuplicateTag, tag, 0, "alias %s already points to %s", alias, existing)
	}
	b.aliases[alias] = tag
	return nil
}

// AddRule attaches a rule to target. Names are checked at Finalize, so tags
// may be declared after the rules that mention them.
func (b *Builder) AddRule(target string, kind RuleKind, names ...string) error {
	if b.frozen {
		return ErrFrozen
	}
	target = strings.ToUpper(target)
	if kind == 0 || int(kind) >= ruleKindCount {
		return newConfigError(ErrInvalidOperand, target, 0, "unknown rule kind %d", kind)
	}
	if kind == TagLimitCounter {
		return newConfigError(ErrInvalidOperand, target, kind, "use AddTagLimit")
	}
	if len(names) == 0 {
		return newConfigError(ErrInvalidOperand, target, kind, "rule needs at least one tag name")
	}
	b.rules = append(b.rules, Rule{Target: target, Kind: kind, Names: upperAll(names)})
	return nil
}

// AddTagLimit allows at most limit instances of child inside target.
func (b *Builder) AddTagLimit(target, child string, limit int) error {
	if b.frozen {
		return ErrFrozen
	}
	target = strings.ToUpper(target)
	if limit < 0 {
		return newConfigError(ErrInvalidOperand, target, TagLimitCounter, "limit cannot be negative")
	}
	if child == "" {
		return newConfigError(ErrInvalidOperand, target, TagLimitCounter, "rule needs a tag name")
	}
	b.rules = append(b.rules, Rule{
		Target: target,
		Kind:   TagLimitCounter,
		Names:  []string{strings.ToUpper(child)},
		Limit:  limit,
	})
	return nil
}

// AddPlugin registers a tag source and lets it declare its tags.
func (b *Builder) AddPlugin(p Plugin) error {
	if b.frozen {
		return ErrFrozen
	}
	for _, existing := range b.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Name())
		}
	}
	if err := p.Setup(b); err != nil {
		return fmt.Errorf("failed to set up plugin %s: %w", p.Name(), err)
	}
	b.plugins = append(b.plugins, p)
	return nil
}

// Finalize validates the rule set and returns its frozen form.
func (b *Builder) Finalize() (*Config, error) {
	if b.frozen {
		return nil, ErrFrozen
	}

	for alias, tag := range b.aliases {
		if _, ok := b.tags[tag]; !ok {
			return nil, newConfigError(ErrUnknownTag, tag, 0, "alias %s refers to an undefined tag", alias)
		}
		if _, ok := b.tags[alias]; ok && alias != tag {
			return nil, newConfigError(ErrDuplicateTag, tag, 0, "alias %s shadows a tag of the same name", alias)
		}
	}

	cfg := &Config{
		tags:    make(map[string]*tagEntry, len(b.tags)),
		order:   append([]string(nil), b.order...),
		aliases: make(map[string]string, len(b.aliases)),
		plugins: append([]Plugin(nil), b.plugins...),
	}
	for alias, tag := range b.aliases {
		cfg.aliases[alias] = tag
	}
	for name, tc := range b.tags {
		entry := &tagEntry{config: *tc}
		entry.config.Attributes = append([]AttributeConfig(nil), tc.Attributes...)
		for i := range entry.config.Attributes {
			entry.config.Attributes[i].Name = strings.ToLower(entry.config.Attributes[i].Name)
		}
		cfg.tags[name] = entry
	}
	for alias, tag := range b.aliases {
		entry := cfg.tags[tag]
		entry.config.Aliases = append(entry.config.Aliases, alias)
	}
	for _, entry := range cfg.tags {
		sort.Strings(entry.config.Aliases)
	}

	for _, r := range b.rules {
		r.Target = cfg.canonical(r.Target)
		entry, ok := cfg.tags[r.Target]
		if !ok {
			return nil, newConfigError(ErrUnknownTag, r.Target, r.Kind, "rule targets an undefined tag")
		}
		names := make([]string, len(r.Names))
		for i, n := range r.Names {
			names[i] = cfg.canonical(n)
			if _, ok := cfg.tags[names[i]]; !ok {
				return nil, newConfigError(ErrUnknownTag, r.Target, r.Kind, "rule refers to undefined tag %s", n)
			}
		}
		r.Names = names
		entry.add(r)
	}

	b.frozen = true
	return cfg, nil
}

// Config is a finalized, immutable rule set. It is safe for concurrent use.
type Config struct {
	tags    map[string]*tagEntry
	order   []string
	aliases map[string]string
	plugins []Plugin
}

// tagEntry is the compiled form of a tag and the rules that concern it.
type tagEntry struct {
	config TagConfig
	rules  []Rule // all rules attached to the tag, in declaration order

	candidate []Rule // rules evaluated when the tag is a candidate
	closers   []Rule // CloseParent / CloseAscendant subset of candidate, in order

	allowed        map[string]bool // nil when any child is allowed
	denyChild      map[string]bool
	denyDescendant map[string]bool
	limits         []Rule
}

func (e *tagEntry) add(r Rule) {
	e.rules = append(e.rules, r)
	if r.Kind.appliesToCandidate() {
		e.candidate = append(e.candidate, r)
		if r.Kind == CloseParent || r.Kind == CloseAscendant {
			e.closers = append(e.closers, r)
		}
		return
	}
	switch r.Kind {
	case AllowChildSubset:
		if e.allowed == nil {
			e.allowed = make(map[string]bool)
		}
		addNames(e.allowed, r.Names)
	case DenyChild:
		if e.denyChild == nil {
			e.denyChild = make(map[string]bool)
		}
		addNames(e.denyChild, r.Names)
	case DenyDescendant:
		if e.denyDescendant == nil {
			e.denyDescendant = make(map[string]bool)
		}
		addNames(e.denyDescendant, r.Names)
	case TagLimitCounter:
		e.limits = append(e.limits, r)
	}
}

// ResolveName maps a markup name or alias to a declared tag name.
func (c *Config) ResolveName(name string) (string, bool) {
	name = strings.ToUpper(name)
	if _, ok := c.tags[name]; ok {
		return name, true
	}
	tag, ok := c.aliases[name]
	return tag, ok
}

// Tag returns a copy of a tag's declaration.
func (c *Config) Tag(name string) (TagConfig, bool) {
	entry, ok := c.tags[strings.ToUpper(name)]
	if !ok {
		return TagConfig{}, false
	}
	tc := entry.config
	tc.Aliases = append([]string(nil), tc.Aliases...)
	tc.Attributes = append([]AttributeConfig(nil), tc.Attributes...)
	return tc, true
}

// TagNames returns the declared tag names in declaration order.
func (c *Config) TagNames() []string {
	return append([]string(nil), c.order...)
}

// Rules returns the rules attached to a tag, in declaration order.
func (c *Config) Rules(name string) []Rule {
	entry, ok := c.tags[strings.ToUpper(name)]
	if !ok {
		return nil
	}
	rules := make([]Rule, len(entry.rules))
	for i, r := range entry.rules {
		r.Names = append([]string(nil), r.Names...)
		rules[i] = r
	}
	return rules
}

// Plugins returns the registered plugins in registration order.
func (c *Config) Plugins() []Plugin {
	return append([]Plugin(nil), c.plugins...)
}

// canonical maps an alias to its tag and leaves other names untouched.
func (c *Config) canonical(name string) string {
	if tag, ok := c.aliases[name]; ok {
		return tag
	}
	return name
}

func (c *Config) entry(name string) *tagEntry {
	return c.tags[name]
}

func addNames(set map[string]bool, names []string) {
	for _, n := range names {
		set[n] = true
	}
}

func upperAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToUpper(strings.TrimSpace(n))
	}
	return out
}

// isValidTagName also requires a leading letter so names are valid XML names.
func isValidTagName(name string) bool {
	if name == "" || name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	for _, r := range name {
		if !isValidMacroNameChar(r) {
			return false
		}
	}
	return true
}

func isValidAlias(alias string) bool {
	if alias == "" {
		return false
	}
	for _, r := range alias {
		if !isValidMarkupNameChar(r) {
			return false
		}
	}
	return true
}
