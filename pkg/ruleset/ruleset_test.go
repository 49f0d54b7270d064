package ruleset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rtx/pkg/markup"
	"github.com/open-cli-collective/rtx/pkg/plugins"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault_Compiles(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	cfg, err := Compile(f)
	require.NoError(t, err)

	name, ok := cfg.ResolveName("*")
	assert.True(t, ok)
	assert.Equal(t, "LI", name)

	for _, tag := range []string{"B", "URL", "IMG", "LIST", "EM", "HE", "ESC"} {
		_, ok := cfg.Tag(tag)
		assert.True(t, ok, "missing tag %s", tag)
	}
	assert.Len(t, cfg.Plugins(), 4)
}

func TestDefault_ReturnsFreshCopy(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	a.Tags = nil

	b, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, b.Tags)
}

func TestDefault_Parses(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	cfg, err := Compile(f)
	require.NoError(t, err)
	p := markup.NewParser(cfg)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "list items close each other",
			input: "[list][*]a[*]b[/list]",
			want:  "<rt><LIST><st>[list]</st><LI><st>[*]</st>a</LI><LI><st>[*]</st>b</LI><et>[/list]</et></LIST></rt>",
		},
		{
			name:  "bare url",
			input: "go to http://example.com",
			want:  `<rt>go to <URL url="http://example.com">http://example.com</URL></rt>`,
		},
		{
			name:  "image without closing tag",
			input: "[img=a.png] ok",
			want:  `<rt><IMG src="a.png"><st>[img=a.png]</st></IMG> ok</rt>`,
		},
		{
			name:  "no markup",
			input: "just text",
			want:  "<pt>just text</pt>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.XML)
		})
	}
}

func TestDefault_CodeDeniesMarkup(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	cfg, err := Compile(f)
	require.NoError(t, err)

	res, err := markup.NewParser(cfg).Parse("[code][b]x[/b][/code]")
	require.NoError(t, err)
	assert.Equal(t, "<rt><CODE><st>[code]</st>[b]x[/b]<et>[/code]</et></CODE></rt>", res.XML)
}

func TestParse_YAML(t *testing.T) {
	data := `
tags:
  - name: b
  - name: i
  - name: quote
    default_attribute: author
    nesting_limit: "2"
    rules:
      - kind: deny_child
        names: b, i
plugins:
  - name: escaper
`
	f, err := Parse([]byte(data), FormatYAML)
	require.NoError(t, err)

	require.Len(t, f.Tags, 3)
	quote, ok := f.Tag("QUOTE")
	require.True(t, ok)
	assert.Equal(t, 2, quote.NestingLimit)
	require.Len(t, quote.Rules, 1)
	assert.Equal(t, []string{"b", "i"}, quote.Rules[0].Names)
	assert.Equal(t, []string{"escaper"}, f.PluginNames())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{name: "unknown key", data: "tags:\n  - name: b\n    colour: red\n", format: FormatYAML},
		{name: "missing name", data: "tags:\n  - aliases: [x]\n", format: FormatYAML},
		{name: "malformed yaml", data: "tags: [\n", format: FormatYAML},
		{name: "unsupported format", data: "{}", format: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "rules.toml", `
[[tags]]
name = "b"
auto_reopen = true

[tags.html]
element = "strong"

[[tags]]
name = "li"
aliases = ["*"]

[[tags.rules]]
kind = "close_parent"
names = ["li"]

[[plugins]]
name = "autolink"
schemes = ["https"]
`)

	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Tags, 2)
	assert.True(t, f.Tags[0].AutoReopen)
	require.NotNil(t, f.Tags[0].HTML)
	assert.Equal(t, "strong", f.Tags[0].HTML.Element)
	assert.Equal(t, []string{"*"}, f.Tags[1].Aliases)
	require.Len(t, f.Tags[1].Rules, 1)
	assert.Equal(t, "close_parent", f.Tags[1].Rules[0].Kind)

	cfg, err := Compile(f)
	require.NoError(t, err)
	require.Len(t, cfg.Plugins(), 1)
	autolink, ok := cfg.Plugins()[0].(*plugins.Autolink)
	require.True(t, ok)
	assert.Equal(t, []string{"https"}, autolink.Schemes)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(writeFile(t, "rules.json", "{}"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported rule-set file")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    File
		wantErr error
	}{
		{
			name:    "unknown rule kind",
			file:    File{Tags: []TagDef{{Name: "b", Rules: []RuleDef{{Kind: "forbid", Names: []string{"b"}}}}}},
			wantErr: markup.ErrInvalidOperand,
		},
		{
			name:    "rule names undefined tag",
			file:    File{Tags: []TagDef{{Name: "b", Rules: []RuleDef{{Kind: "deny_child", Names: []string{"x"}}}}}},
			wantErr: markup.ErrUnknownTag,
		},
		{
			name:    "tag limit without names",
			file:    File{Tags: []TagDef{{Name: "list", Rules: []RuleDef{{Kind: "tag_limit", Limit: 2}}}}},
			wantErr: markup.ErrInvalidOperand,
		},
		{
			name:    "duplicate tag",
			file:    File{Tags: []TagDef{{Name: "b"}, {Name: "B"}}},
			wantErr: markup.ErrDuplicateTag,
		},
		{
			name:    "unknown plugin",
			file:    File{Plugins: []PluginDef{{Name: "smilies"}}},
			wantErr: markup.ErrUnknownPlugin,
		},
		{
			name:    "duplicate plugin",
			file:    File{Plugins: []PluginDef{{Name: "escaper"}, {Name: "escaper"}}},
			wantErr: markup.ErrDuplicatePlugin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(&tt.file)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestCompile_TagLimitPerName(t *testing.T) {
	f := &File{Tags: []TagDef{
		{Name: "list", Rules: []RuleDef{{Kind: "tag_limit", Names: []string{"a", "b"}, Limit: 1}}},
		{Name: "a"},
		{Name: "b"},
	}}
	cfg, err := Compile(f)
	require.NoError(t, err)

	rules := cfg.Rules("LIST")
	require.Len(t, rules, 2)
	assert.Equal(t, []string{"A"}, rules[0].Names)
	assert.Equal(t, []string{"B"}, rules[1].Names)
	assert.Equal(t, 1, rules[1].Limit)
}

func TestExport_RoundTrip(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	for _, format := range []string{FormatYAML, FormatTOML} {
		t.Run(format, func(t *testing.T) {
			data, err := Export(f, format)
			require.NoError(t, err)

			back, err := Parse(data, format)
			require.NoError(t, err)
			assert.Equal(t, f, back)
		})
	}
}

func TestExport_UnsupportedFormat(t *testing.T) {
	_, err := Export(&File{}, "xml")
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	cfg, err := Compile(f)
	require.NoError(t, err)

	assert.Equal(t, f, FromConfig(cfg, f))

	bare := FromConfig(cfg, nil)
	for _, td := range bare.Tags {
		assert.Nil(t, td.HTML)
	}
}

func TestFile_SelectPlugins(t *testing.T) {
	f := &File{Plugins: []PluginDef{{Name: "autolink", Schemes: []string{"https"}}, {Name: "escaper"}}}

	f.SelectPlugins([]string{" Autolink ", "", "litedown"})

	assert.Equal(t, []PluginDef{{Name: "autolink", Schemes: []string{"https"}}, {Name: "litedown"}}, f.Plugins)
}

func TestFile_HTMLMapping(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	mapping := f.HTMLMapping()
	assert.Equal(t, "a", mapping["URL"].Element)
	assert.Equal(t, "href", mapping["URL"].Attributes["url"])
	assert.Equal(t, "char", mapping["HE"].TextAttribute)
	assert.Equal(t, "font-size", mapping["SIZE"].Styles["size"])
}
