package markup

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bbcodeConfig(t *testing.T) *Config {
	t.Helper()
	b := NewBuilder()
	require.NoError(t, b.AddTag(TagConfig{Name: "b"}))
	require.NoError(t, b.AddTag(TagConfig{Name: "url"}))
	require.NoError(t, b.AddTag(TagConfig{Name: "img"}))
	require.NoError(t, b.AddTag(TagConfig{Name: "quote", DefaultAttribute: "author"}))
	require.NoError(t, b.AddTag(TagConfig{Name: "li", Aliases: []string{"*"}}))
	cfg, err := b.Finalize()
	require.NoError(t, err)
	return cfg
}

func TestTokenizeBBCode_EmptyInput(t *testing.T) {
	assert.Empty(t, TokenizeBBCode("", bbcodeConfig(t)))
}

func TestTokenizeBBCode_PlainText(t *testing.T) {
	assert.Empty(t, TokenizeBBCode("Hello [world] and [/b without close", bbcodeConfig(t)))
}

func TestTokenizeBBCode_Forms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantType TagType
		wantLen  int
	}{
		{"start", "[b]", "B", StartTag, 3},
		{"uppercase", "[B]", "B", StartTag, 3},
		{"end", "[/b]", "B", EndTag, 4},
		{"self-closing", "[img/]", "IMG", SelfClosingTag, 6},
		{"self-closing with space", "[img /]", "IMG", SelfClosingTag, 7},
		{"alias", "[*]", "LI", StartTag, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := TokenizeBBCode(tt.input, bbcodeConfig(t))
			require.Len(t, tags, 1)
			assert.Equal(t, tt.wantName, tags[0].Name)
			assert.Equal(t, tt.wantType, tags[0].Type)
			assert.Equal(t, 0, tags[0].Pos)
			assert.Equal(t, tt.wantLen, tags[0].Len)
			assert.Equal(t, SourceMarkup, tags[0].Source)
		})
	}
}

func TestTokenizeBBCode_Attributes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{"default value", "[url=http://example.com/]", map[string]string{"url": "http://example.com/"}},
		{"named default attribute", "[quote=alice]", map[string]string{"author": "alice"}},
		{"double quoted", `[quote author="Bob Smith"]`, map[string]string{"author": "Bob Smith"}},
		{"single quoted with escape", `[quote author='O\'Brien']`, map[string]string{"author": "O'Brien"}},
		{"keys lower-cased", "[img SRC=a.png Width=10]", map[string]string{"src": "a.png", "width": "10"}},
		{"boolean key", "[img lazy]", map[string]string{"lazy": "true"}},
		{"multibyte default value", "[quote=Åsa]", map[string]string{"author": "Åsa"}},
		{"multibyte url", "[url=http://x.com/à]", map[string]string{"url": "http://x.com/à"}},
		{"multibyte key value", "[quote author=Åsa]", map[string]string{"author": "Åsa"}},
		{"non-breaking space is not a separator", "[quote author=a\u00a0b]", map[string]string{"author": "a\u00a0b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := TokenizeBBCode(tt.input, bbcodeConfig(t))
			require.Len(t, tags, 1)
			assert.Equal(t, tt.want, tags[0].Attributes)
		})
	}
}

func TestParse_MultibyteAttributeStaysValidUTF8(t *testing.T) {
	res, err := NewParser(bbcodeConfig(t)).Parse("[quote=Åsa]t[/quote]")
	require.NoError(t, err)
	assert.Equal(t, `<rt><QUOTE author="Åsa"><st>[quote=Åsa]</st>t<et>[/quote]</et></QUOTE></rt>`, res.XML)
	assert.True(t, utf8.ValidString(res.XML))
}

func TestTokenizeBBCode_Pairing(t *testing.T) {
	tags := TokenizeBBCode("[b]x[b]y[/b][/b][/b]", bbcodeConfig(t))
	require.Len(t, tags, 5)
	assert.Same(t, tags[3], tags[0].Pair())
	assert.Same(t, tags[2], tags[1].Pair())
	assert.Nil(t, tags[4].Pair())
}

func TestTokenizeBBCode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed", "[b"},
		{"unclosed end", "[/b"},
		{"unclosed quote", `[url="http://x]`},
		{"bad parameter", "[url 1=2]"},
		{"slash not before bracket", "[img/x]"},
		{"empty name", "[]"},
		{"unknown", "[nope]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, TokenizeBBCode(tt.input, bbcodeConfig(t)))
		})
	}
}

func TestTokenizeBBCode_RecoversAfterMalformedBracket(t *testing.T) {
	tags := TokenizeBBCode("[[b]x", bbcodeConfig(t))
	require.Len(t, tags, 1)
	assert.Equal(t, 1, tags[0].Pos)
}

func TestTokenizeBBCode_VoidTag(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddTag(TagConfig{Name: "img", DefaultAttribute: "src", Void: true}))
	cfg, err := b.Finalize()
	require.NoError(t, err)

	tags := TokenizeBBCode("[img=a.png]x[/img]", cfg)
	require.Len(t, tags, 2)
	assert.Equal(t, SelfClosingTag, tags[0].Type)
	assert.Nil(t, tags[1].Pair())

	res, err := NewParser(cfg).Parse("[img=a.png]x[/img]")
	require.NoError(t, err)
	assert.Equal(t, `<rt><IMG src="a.png"><st>[img=a.png]</st></IMG>x[/img]</rt>`, res.XML)
}
