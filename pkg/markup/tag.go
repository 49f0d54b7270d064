// tag.go defines the positional tag records exchanged between tag sources and the resolver.
package markup

import "strings"

// TagType identifies a tag as a start, end or self-closing marker.
type TagType uint8

const (
	StartTag       TagType = 1                  // opens a frame
	EndTag         TagType = 2                  // closes a frame
	SelfClosingTag TagType = StartTag | EndTag // opens and closes in place
)

// String returns a short human-readable name for the tag type.
func (t TagType) String() string {
	switch t {
	case StartTag:
		return "start"
	case EndTag:
		return "end"
	case SelfClosingTag:
		return "self-closing"
	}
	return "unknown"
}

// Flag is a bitset of cosmetic tag flags.
type Flag uint8

const (
	// FlagIgnore marks a span of text that renderers should skip.
	FlagIgnore Flag = 1 << iota
	// FlagInvalid is set by the resolver on tags that lost a conflict.
	FlagInvalid
)

// TagSource tells which pass produced a tag. It only takes part in tie-breaking.
type TagSource uint8

const (
	SourceMarkup TagSource = iota // literal markup such as [b]
	SourcePlugin                  // detected by a plugin, e.g. a bare URL
)

// Tag is a single positional marker over the input text.
type Tag struct {
	Type         TagType
	Name         string            // upper-cased tag name, empty for ignore tags
	Pos          int               // byte offset in the input text
	Len          int               // number of bytes of markup consumed
	Attributes   map[string]string // lower-cased attribute names
	SortPriority int
	Flags        Flag
	Source       TagSource
	Plugin       string // name of the emitting plugin, informational only

	pair *Tag // end tag for a start tag and vice versa
	seq  int  // insertion order assigned by the collector
}

func newTag(t TagType, name string, pos, length int) *Tag {
	return &Tag{
		Type:       t,
		Name:       strings.ToUpper(name),
		Pos:        pos,
		Len:        length,
		Attributes: make(map[string]string),
	}
}

// NewStartTag creates a start tag.
func NewStartTag(name string, pos, length int) *Tag {
	return newTag(StartTag, name, pos, length)
}

// NewEndTag creates an end tag.
func NewEndTag(name string, pos, length int) *Tag {
	return newTag(EndTag, name, pos, length)
}

// NewSelfClosingTag creates a self-closing tag.
func NewSelfClosingTag(name string, pos, length int) *Tag {
	return newTag(SelfClosingTag, name, pos, length)
}

// NewIgnoreTag creates a nameless tag whose span is kept as ignored text.
func NewIgnoreTag(pos, length int) *Tag {
	t := newTag(SelfClosingTag, "", pos, length)
	t.Flags |= FlagIgnore
	return t
}

// NewTagPair creates a start tag and its matching end tag, linked together.
func NewTagPair(name string, startPos, startLen, endPos, endLen int) (*Tag, *Tag) {
	start := NewStartTag(name, startPos, startLen)
	end := NewEndTag(name, endPos, endLen)
	start.PairWith(end)
	return start, end
}

// PairWith links a start tag to the end tag that closes it.
func (t *Tag) PairWith(end *Tag) {
	t.pair = end
	end.pair = t
}

// Pair returns the linked start or end tag, if any.
func (t *Tag) Pair() *Tag {
	return t.pair
}

// End returns the offset right after the tag's markup.
func (t *Tag) End() int {
	return t.Pos + t.Len
}

// IsStart reports whether the tag opens a frame (start or self-closing).
func (t *Tag) IsStart() bool {
	return t.Type&StartTag != 0
}

// IsEnd reports whether the tag closes a frame (end or self-closing).
func (t *Tag) IsEnd() bool {
	return t.Type&EndTag != 0
}

// IsIgnore reports whether the tag only marks ignored text.
func (t *Tag) IsIgnore() bool {
	return t.Flags&FlagIgnore != 0
}

// IsInvalid reports whether the resolver discarded the tag.
func (t *Tag) IsInvalid() bool {
	return t.Flags&FlagInvalid != 0
}

// SetAttribute sets an attribute, normalizing its name.
func (t *Tag) SetAttribute(name, value string) {
	if t.Attributes == nil {
		t.Attributes = make(map[string]string)
	}
	t.Attributes[strings.ToLower(name)] = value
}

// Attribute returns the value of an attribute.
func (t *Tag) Attribute(name string) (string, bool) {
	v, ok := t.Attributes[strings.ToLower(name)]
	return v, ok
}

// invalidate flags the tag and its paired tag as discarded.
func (t *Tag) invalidate() {
	t.Flags |= FlagInvalid
	if t.pair != nil && t.Type == StartTag {
		t.pair.Flags |= FlagInvalid
	}
}

// typeRank orders tag types at the same position: end, start, self-closing.
func typeRank(t TagType) int {
	switch t {
	case EndTag:
		return 0
	case StartTag:
		return 1
	}
	return 2
}

// Compare orders tags for processing. Lower position first, then lower sort
// priority, then end before start before self-closing, then markup before
// plugin tags, then insertion order. It returns -1, 0 or 1.
func Compare(a, b *Tag) int {
	switch {
	case a.Pos != b.Pos:
		return cmpInt(a.Pos, b.Pos)
	case a.SortPriority != b.SortPriority:
		return cmpInt(a.SortPriority, b.SortPriority)
	case a.Type != b.Type:
		return cmpInt(typeRank(a.Type), typeRank(b.Type))
	case a.Source != b.Source:
		return cmpInt(int(a.Source), int(b.Source))
	}
	return cmpInt(a.seq, b.seq)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
