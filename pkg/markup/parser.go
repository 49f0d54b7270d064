// Package markup turns text carrying BBCode-like markup and plugin-detected
// patterns into a well-nested tagged representation, enforcing a frozen rule set.
package markup

// Parser parses texts against a frozen Config. A Parser holds no per-parse
// state, so one Parser may serve any number of goroutines.
type Parser struct {
	cfg      *Config
	bbcode   bool
	disabled map[string]bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithoutBBCode disables the bracket markup pass; only plugins produce tags.
func WithoutBBCode() Option {
	return func(p *Parser) { p.bbcode = false }
}

// WithoutPlugins skips the named plugins for this parser.
func WithoutPlugins(names ...string) Option {
	return func(p *Parser) {
		for _, n := range names {
			p.disabled[n] = true
		}
	}
}

// NewParser creates a parser for cfg.
func NewParser(cfg *Config, opts ...Option) *Parser {
	p := &Parser{cfg: cfg, bbcode: true, disabled: make(map[string]bool)}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Config returns the rule set the parser enforces.
func (p *Parser) Config() *Config {
	return p.cfg
}

// Parse collects tags from the markup pass and every plugin, resolves them and
// assembles the tagged representation. Malformed markup never causes an
// error; the only error is ErrInconsistentEvents, which indicates a defect.
func (p *Parser) Parse(text string) (*Result, error) {
	result := &Result{Text: text}

	collector := NewCollector(len(text), result)
	if p.bbcode {
		collector.Add(TokenizeBBCode(text, p.cfg)...)
	}
	for _, plugin := range p.cfg.plugins {
		if p.disabled[plugin.Name()] {
			continue
		}
		tags := plugin.Parse(text)
		for _, t := range tags {
			if t == nil {
				continue
			}
			t.Source = SourcePlugin
			t.Plugin = plugin.Name()
		}
		collector.Add(tags...)
	}

	Resolve(p.cfg, text, collector.Collect(), result)

	xml, err := Assemble(text, result.Events)
	if err != nil {
		return nil, err
	}
	result.XML = xml
	return result, nil
}
