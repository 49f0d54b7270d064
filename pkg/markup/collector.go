// collector.go merges tags from every source into one deterministic sequence.
package markup

import (
	"sort"
)

// Collector gathers tag candidates from several sources.
type Collector struct {
	textLen int
	tags    []*Tag
	seen    map[tagKey]*Tag
	result  *Result
}

type tagKey struct {
	typ  TagType
	name string
	pos  int
	len  int
}

// NewCollector creates a collector for a text of textLen bytes. Rejected tags
// are reported on result when it is not nil.
func NewCollector(textLen int, result *Result) *Collector {
	return &Collector{
		textLen: textLen,
		seen:    make(map[tagKey]*Tag),
		result:  result,
	}
}

// Add appends tags. Out-of-range tags are discarded and duplicates merged into
// the first copy seen, keeping its attribute values on conflict.
func (c *Collector) Add(tags ...*Tag) {
	for _, t := range tags {
		if t == nil {
			continue
		}
		if t.Pos < 0 || t.Len < 0 || t.End() > c.textLen {
			c.warn(t, "tag lies outside the text")
			continue
		}
		key := tagKey{typ: t.Type, name: t.Name, pos: t.Pos, len: t.Len}
		if !t.IsIgnore() {
			if first, ok := c.seen[key]; ok {
				mergeAttributes(first, t)
				if t.pair != nil && first.pair == nil {
					first.PairWith(t.pair)
				}
				continue
			}
			c.seen[key] = t
		}
		t.seq = len(c.tags)
		c.tags = append(c.tags, t)
	}
}

// Len returns the number of distinct tags collected so far.
func (c *Collector) Len() int {
	return len(c.tags)
}

// Collect returns the tags in processing order. The collector's own slice is
// not reordered, so Collect can be called repeatedly.
func (c *Collector) Collect() []*Tag {
	out := append([]*Tag(nil), c.tags...)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}

func (c *Collector) warn(t *Tag, reason string) {
	if c.result != nil {
		c.result.AddWarning(t, reason)
	}
}

// mergeAttributes copies attributes from dup that first does not define.
func mergeAttributes(first, dup *Tag) {
	for k, v := range dup.Attributes {
		if _, ok := first.Attributes[k]; !ok {
			first.SetAttribute(k, v)
		}
	}
}
