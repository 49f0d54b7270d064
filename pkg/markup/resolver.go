// resolver.go turns an ordered tag sequence into well-nested events.
package markup

import "fmt"

// frame is one open tag on the resolver's stack.
type frame struct {
	tag       *Tag // tag that opened the frame; a synthesized tag after a reopen
	identity  *Tag // original start tag, matched against paired end tags
	entry     *tagEntry
	remaining map[string]int // TagLimitCounter budget per child name
}

// resolver holds the state of a single resolution. It is never shared.
type resolver struct {
	cfg    *Config
	text   string
	result *Result
	stack  []frame
	cursor int            // end of the last consumed span
	counts map[string]int // accepted instances per tag name
}

// ruleCheck evaluates one rule for a candidate. owner is the index of the
// frame the rule belongs to, or -1 for rules attached to the candidate; depth
// is the height of the stack once the candidate's close rules have run. It
// returns an empty string when the rule is satisfied.
type ruleCheck func(r *resolver, rule Rule, owner int, t *Tag, depth int) string

// ruleTable dispatches rule evaluation by kind. Close rules have no entry:
// they are applied by closeDepth before any check runs.
var ruleTable = [ruleKindCount]ruleCheck{
	RequireParent:    checkRequireParent,
	RequireAscendant: checkRequireAscendant,
	DenyChild:        checkDenyChild,
	DenyDescendant:   checkDenyDescendant,
	AllowChildSubset: checkAllowChildSubset,
	TagLimitCounter:  checkTagLimit,
}

// Resolve runs the tags, which must be in Collector order, against text and
// appends the resulting events and warnings to result. A nil result is
// allocated. Resolve never fails: tags that cannot be honored are dropped and
// their markup stays in the output as plain text.
func Resolve(cfg *Config, text string, tags []*Tag, result *Result) *Result {
	if result == nil {
		result = &Result{Text: text}
	}
	r := &resolver{
		cfg:    cfg,
		text:   text,
		result: result,
		counts: make(map[string]int),
	}
	for _, t := range tags {
		r.process(t)
	}
	r.textUpTo(len(text))
	r.closeFrames(0, len(text))
	return result
}

func (r *resolver) process(t *Tag) {
	if t.IsInvalid() {
		r.result.AddWarning(t, "paired tag was dropped")
		return
	}
	if t.Pos < r.cursor {
		if t.Type != EndTag || t.Len != 0 {
			r.drop(t, "overlaps previous markup")
			return
		}
		t.Pos = r.cursor
	}
	if t.IsIgnore() {
		r.textUpTo(t.Pos)
		r.result.addEvent(EventIgnore, t, t.Pos, t.End())
		r.cursor = t.End()
		return
	}

	entry := r.cfg.entry(t.Name)
	if entry == nil {
		r.drop(t, "tag is not defined")
		return
	}
	switch t.Type {
	case StartTag, SelfClosingTag:
		r.openTag(t, entry)
	case EndTag:
		r.closeTag(t)
	}
}

// openTag handles start and self-closing candidates.
func (r *resolver) openTag(t *Tag, entry *tagEntry) {
	depth := r.closeDepth(entry)
	if reason := r.check(t, entry, depth); reason != "" {
		r.drop(t, reason)
		return
	}
	if attr, ok := prepareAttributes(t, entry); !ok {
		r.drop(t, fmt.Sprintf("missing required attribute %q", attr))
		return
	}

	r.textUpTo(t.Pos)
	r.closeFrames(depth, t.Pos)
	r.consumeLimits(t.Name)
	r.counts[t.Name]++
	r.cursor = t.End()

	if t.Type == SelfClosingTag {
		r.result.addEvent(EventEmpty, t, t.Pos, t.End())
		return
	}
	r.result.addEvent(EventOpen, t, t.Pos, t.End())
	r.push(frame{tag: t, identity: t, entry: entry, remaining: newLimits(entry)})
}

// closeTag handles end candidates. Frames opened after the matching one are
// closed first; those configured to reopen are reopened after the end tag.
func (r *resolver) closeTag(t *Tag) {
	idx := r.findFrame(t)
	if idx < 0 {
		r.drop(t, "no matching open tag")
		return
	}

	r.textUpTo(t.Pos)
	var reopen []frame
	for len(r.stack)-1 > idx {
		f := r.pop(t.Pos, t.Pos)
		if f.entry.config.AutoReopen {
			reopen = append(reopen, f)
		}
	}
	r.pop(t.Pos, t.End())
	r.cursor = t.End()

	for i := len(reopen) - 1; i >= 0; i-- {
		f := reopen[i]
		nt := NewStartTag(f.tag.Name, t.End(), 0)
		for k, v := range f.tag.Attributes {
			nt.Attributes[k] = v
		}
		nt.Source = f.tag.Source
		nt.Plugin = f.tag.Plugin
		r.result.addEvent(EventOpen, nt, nt.Pos, nt.Pos)
		f.tag = nt
		r.push(f)
	}
}

// findFrame returns the index of the frame t closes, or -1. A paired end tag
// only closes the frame of its own start tag; an unpaired one closes the
// nearest unpaired frame of the same name.
func (r *resolver) findFrame(t *Tag) int {
	for i := len(r.stack) - 1; i >= 0; i-- {
		f := r.stack[i]
		if t.pair != nil {
			if f.identity == t.pair {
				return i
			}
			continue
		}
		if f.identity.pair == nil && f.tag.Name == t.Name {
			return i
		}
	}
	return -1
}

// closeDepth returns the stack height left once the candidate's CloseParent
// and CloseAscendant rules have run, without touching the stack.
func (r *resolver) closeDepth(entry *tagEntry) int {
	depth := len(r.stack)
	for _, rule := range entry.closers {
		switch rule.Kind {
		case CloseParent:
			if depth > 0 && rule.has(r.stack[depth-1].tag.Name) {
				depth--
			}
		case CloseAscendant:
			for i := depth - 1; i >= 0; i-- {
				if rule.has(r.stack[i].tag.Name) {
					depth = i
					break
				}
			}
		}
	}
	return depth
}

// check evaluates every constraint on a candidate against the stack as it
// would be after its close rules. It returns the reason for rejection, if any.
func (r *resolver) check(t *Tag, entry *tagEntry, depth int) string {
	if limit := entry.config.TagLimit; limit > 0 && r.counts[t.Name] >= limit {
		return fmt.Sprintf("tag limit of %d reached", limit)
	}
	if limit := entry.config.NestingLimit; limit > 0 {
		open := 0
		for _, f := range r.stack[:depth] {
			if f.tag.Name == t.Name {
				open++
			}
		}
		if open >= limit {
			return fmt.Sprintf("nesting limit of %d reached", limit)
		}
	}

	for _, rule := range entry.candidate {
		if fn := ruleTable[rule.Kind]; fn != nil {
			if reason := fn(r, rule, -1, t, depth); reason != "" {
				return reason
			}
		}
	}
	for i := depth - 1; i >= 0; i-- {
		for _, rule := range r.stack[i].entry.rules {
			if rule.Kind.appliesToCandidate() {
				continue
			}
			if reason := ruleTable[rule.Kind](r, rule, i, t, depth); reason != "" {
				return reason
			}
		}
	}
	return ""
}

func checkRequireParent(r *resolver, rule Rule, _ int, _ *Tag, depth int) string {
	if depth > 0 && rule.has(r.stack[depth-1].tag.Name) {
		return ""
	}
	return fmt.Sprintf("requires parent %v", rule.Names)
}

func checkRequireAscendant(r *resolver, rule Rule, _ int, _ *Tag, depth int) string {
	for i := depth - 1; i >= 0; i-- {
		if rule.has(r.stack[i].tag.Name) {
			return ""
		}
	}
	return fmt.Sprintf("requires ascendant %v", rule.Names)
}

func checkDenyChild(r *resolver, rule Rule, owner int, t *Tag, depth int) string {
	if owner == depth-1 && r.stack[owner].entry.denyChild[t.Name] {
		return fmt.Sprintf("denied as a child of %s", rule.Target)
	}
	return ""
}

func checkDenyDescendant(r *resolver, rule Rule, owner int, t *Tag, _ int) string {
	if r.stack[owner].entry.denyDescendant[t.Name] {
		return fmt.Sprintf("denied inside %s", rule.Target)
	}
	return ""
}

func checkAllowChildSubset(r *resolver, rule Rule, owner int, t *Tag, depth int) string {
	if owner == depth-1 && !r.stack[owner].entry.allowed[t.Name] {
		return fmt.Sprintf("not allowed as a child of %s", rule.Target)
	}
	return ""
}

func checkTagLimit(r *resolver, rule Rule, owner int, t *Tag, _ int) string {
	if rule.has(t.Name) && r.stack[owner].remaining[t.Name] <= 0 {
		return fmt.Sprintf("limit of %d %s inside %s reached", rule.Limit, t.Name, rule.Target)
	}
	return ""
}

// consumeLimits charges an accepted tag against every open ancestor's budget.
func (r *resolver) consumeLimits(name string) {
	for i := range r.stack {
		if n, ok := r.stack[i].remaining[name]; ok {
			r.stack[i].remaining[name] = n - 1
		}
	}
}

func newLimits(entry *tagEntry) map[string]int {
	if len(entry.limits) == 0 {
		return nil
	}
	remaining := make(map[string]int, len(entry.limits))
	for _, rule := range entry.limits {
		for _, n := range rule.Names {
			if cur, ok := remaining[n]; !ok || rule.Limit < cur {
				remaining[n] = rule.Limit
			}
		}
	}
	return remaining
}

// prepareAttributes fills in default attribute values. It returns the name of
// the first missing required attribute and false when the tag is unusable.
func prepareAttributes(t *Tag, entry *tagEntry) (string, bool) {
	for _, attr := range entry.config.Attributes {
		if _, ok := t.Attributes[attr.Name]; ok {
			continue
		}
		if attr.Default != "" {
			t.SetAttribute(attr.Name, attr.Default)
			continue
		}
		if attr.Required {
			return attr.Name, false
		}
	}
	return "", true
}

func (r *resolver) push(f frame) {
	r.stack = append(r.stack, f)
}

// pop closes the top frame with a close event spanning [start, end).
func (r *resolver) pop(start, end int) frame {
	f := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.result.addEvent(EventClose, f.tag, start, end)
	return f
}

// closeFrames synthesizes close events at pos until depth frames remain.
func (r *resolver) closeFrames(depth, pos int) {
	for len(r.stack) > depth {
		r.pop(pos, pos)
	}
}

// textUpTo emits the literal text between the cursor and pos.
func (r *resolver) textUpTo(pos int) {
	if pos > r.cursor {
		r.result.addText(r.cursor, pos)
		r.cursor = pos
	}
}

func (r *resolver) drop(t *Tag, reason string) {
	t.invalidate()
	r.result.AddWarning(t, reason)
}
