package markup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlugin struct {
	name string
	tags []*Tag
}

func (p *stubPlugin) Name() string { return p.name }

func (p *stubPlugin) Setup(b *Builder) error {
	if b.HasTag("stub") {
		return nil
	}
	return b.AddTag(TagConfig{Name: "stub"})
}

func (p *stubPlugin) Parse(string) []*Tag { return p.tags }

func TestBuilder_AddTagErrors(t *testing.T) {
	tests := []struct {
		name    string
		tag     TagConfig
		wantErr error
	}{
		{"empty name", TagConfig{Name: ""}, ErrInvalidName},
		{"leading digit", TagConfig{Name: "1b"}, ErrInvalidName},
		{"bad character", TagConfig{Name: "a.b"}, ErrInvalidName},
		{"duplicate", TagConfig{Name: "B"}, ErrDuplicateTag},
		{"negative limit", TagConfig{Name: "x", TagLimit: -1}, ErrInvalidOperand},
		{"bad alias", TagConfig{Name: "y", Aliases: []string{"a]"}}, ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			require.NoError(t, b.AddTag(TagConfig{Name: "b"}))
			err := b.AddTag(tt.tag)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			var cfgErr *ConfigError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestBuilder_AddRuleErrors(t *testing.T) {
	b := NewBuilder()
	assert.ErrorIs(t, b.AddRule("b", RuleKind(0), "i"), ErrInvalidOperand)
	assert.ErrorIs(t, b.AddRule("b", RuleKind(99), "i"), ErrInvalidOperand)
	assert.ErrorIs(t, b.AddRule("b", TagLimitCounter, "i"), ErrInvalidOperand)
	assert.ErrorIs(t, b.AddRule("b", DenyChild), ErrInvalidOperand)
	assert.ErrorIs(t, b.AddTagLimit("b", "i", -1), ErrInvalidOperand)
	assert.ErrorIs(t, b.AddTagLimit("b", "", 1), ErrInvalidOperand)
}

func TestBuilder_FinalizeUnknownNames(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddTag(TagConfig{Name: "b"}))
	require.NoError(t, b.AddRule("b", DenyChild, "missing"))
	_, err := b.Finalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTag)
	assert.Contains(t, err.Error(), "deny_child")

	b = NewBuilder()
	require.NoError(t, b.AddRule("ghost", DenyChild, "b"))
	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrUnknownTag)

	b = NewBuilder()
	require.NoError(t, b.AddAlias("ghost", "g"))
	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrUnknownTag)
}

func TestBuilder_AliasShadowingTag(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddTag(TagConfig{Name: "b"}))
	require.NoError(t, b.AddTag(TagConfig{Name: "strong"}))
	require.NoError(t, b.AddAlias("strong", "b"))
	_, err := b.Finalize()
	assert.ErrorIs(t, err, ErrDuplicateTag)
}

func TestBuilder_FrozenAfterFinalize(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddTag(TagConfig{Name: "b"}))
	_, err := b.Finalize()
	require.NoError(t, err)

	assert.ErrorIs(t, b.AddTag(TagConfig{Name: "i"}), ErrFrozen)
	assert.ErrorIs(t, b.AddRule("b", DenyChild, "b"), ErrFrozen)
	assert.ErrorIs(t, b.AddTagLimit("b", "b", 1), ErrFrozen)
	assert.ErrorIs(t, b.AddAlias("b", "bold"), ErrFrozen)
	assert.ErrorIs(t, b.AddPlugin(&stubPlugin{name: "stub"}), ErrFrozen)
	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrFrozen)
}

func TestBuilder_Plugins(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddPlugin(&stubPlugin{name: "stub"}))
	assert.True(t, b.HasTag("STUB"))
	assert.ErrorIs(t, b.AddPlugin(&stubPlugin{name: "stub"}), ErrDuplicatePlugin)

	cfg, err := b.Finalize()
	require.NoError(t, err)
	require.Len(t, cfg.Plugins(), 1)
	assert.Equal(t, "stub", cfg.Plugins()[0].Name())
}

func TestConfig_Accessors(t *testing.T) {
	cfg := listConfig(t)

	name, ok := cfg.ResolveName("*")
	require.True(t, ok)
	assert.Equal(t, "LI", name)
	name, ok = cfg.ResolveName("List")
	require.True(t, ok)
	assert.Equal(t, "LIST", name)
	_, ok = cfg.ResolveName("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"LIST", "LI"}, cfg.TagNames())

	tc, ok := cfg.Tag("li")
	require.True(t, ok)
	assert.Equal(t, []string{"*"}, tc.Aliases)

	rules := cfg.Rules("li")
	require.Len(t, rules, 2)
	assert.Equal(t, RequireParent, rules[0].Kind)
	assert.Equal(t, CloseParent, rules[1].Kind)

	// returned slices are copies
	rules[0].Names[0] = "CHANGED"
	assert.Equal(t, []string{"LIST"}, cfg.Rules("li")[0].Names)
}

func TestParser_PluginTags(t *testing.T) {
	start, end := NewTagPair("stub", 0, 0, 3, 0)
	b := NewBuilder()
	require.NoError(t, b.AddPlugin(&stubPlugin{name: "stub", tags: []*Tag{start, end, nil}}))
	cfg, err := b.Finalize()
	require.NoError(t, err)

	res, err := NewParser(cfg).Parse("abc")
	require.NoError(t, err)
	assert.Equal(t, "<rt><STUB>abc</STUB></rt>", res.XML)
	require.Len(t, res.Tags(), 1)
	assert.Equal(t, SourcePlugin, res.Tags()[0].Source)
	assert.Equal(t, "stub", res.Tags()[0].Plugin)

	res, err = NewParser(cfg, WithoutPlugins("stub")).Parse("abc")
	require.NoError(t, err)
	assert.Equal(t, "<pt>abc</pt>", res.XML)
}

func TestParser_WithoutBBCode(t *testing.T) {
	cfg := buildConfig(t, []string{"b"}, nil)
	res, err := NewParser(cfg, WithoutBBCode()).Parse("[b]x[/b]")
	require.NoError(t, err)
	assert.Equal(t, "<pt>[b]x[/b]</pt>", res.XML)
}
