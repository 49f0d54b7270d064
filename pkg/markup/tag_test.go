package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTagPair(t *testing.T) {
	start, end := NewTagPair("url", 0, 0, 10, 0)
	assert.Equal(t, "URL", start.Name)
	assert.Equal(t, StartTag, start.Type)
	assert.Equal(t, EndTag, end.Type)
	assert.Same(t, end, start.Pair())
	assert.Same(t, start, end.Pair())
}

func TestTag_TypePredicates(t *testing.T) {
	assert.True(t, NewStartTag("b", 0, 3).IsStart())
	assert.False(t, NewStartTag("b", 0, 3).IsEnd())
	assert.True(t, NewEndTag("b", 0, 4).IsEnd())
	assert.True(t, NewSelfClosingTag("br", 0, 5).IsStart())
	assert.True(t, NewSelfClosingTag("br", 0, 5).IsEnd())
	assert.True(t, NewIgnoreTag(0, 1).IsIgnore())
	assert.Equal(t, "self-closing", SelfClosingTag.String())
}

func TestTag_Attributes(t *testing.T) {
	tag := NewStartTag("url", 0, 5)
	tag.SetAttribute("URL", "http://example.com")
	v, ok := tag.Attribute("url")
	require.True(t, ok)
	assert.Equal(t, "http://example.com", v)

	_, ok = tag.Attribute("title")
	assert.False(t, ok)
}

func TestTag_InvalidateStartFlagsPair(t *testing.T) {
	start, end := NewTagPair("b", 0, 3, 4, 4)
	start.invalidate()
	assert.True(t, start.IsInvalid())
	assert.True(t, end.IsInvalid())

	start, end = NewTagPair("b", 0, 3, 4, 4)
	end.invalidate()
	assert.True(t, end.IsInvalid())
	assert.False(t, start.IsInvalid())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b *Tag
	}{
		{"position", NewStartTag("b", 0, 3), NewStartTag("a", 1, 3)},
		{"sort priority", &Tag{Type: StartTag, Pos: 2, SortPriority: -10}, &Tag{Type: EndTag, Pos: 2}},
		{"end before start", NewEndTag("b", 2, 4), NewStartTag("b", 2, 3)},
		{"start before self-closing", NewStartTag("b", 2, 3), NewSelfClosingTag("br", 2, 5)},
		{"markup before plugin", &Tag{Type: StartTag, Pos: 2, Source: SourceMarkup}, &Tag{Type: StartTag, Pos: 2, Source: SourcePlugin}},
		{"insertion order", &Tag{Type: StartTag, Pos: 2, seq: 1}, &Tag{Type: StartTag, Pos: 2, seq: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, -1, Compare(tt.a, tt.b))
			assert.Equal(t, 1, Compare(tt.b, tt.a))
		})
	}
	tag := NewStartTag("b", 0, 3)
	assert.Equal(t, 0, Compare(tag, tag))
}
