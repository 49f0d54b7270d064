package plugins

import (
	"regexp"

	"github.com/open-cli-collective/rtx/pkg/markup"
)

// EscaperName is the registry name of the Escaper plugin.
const EscaperName = "escaper"

// escapePriority sorts escapes ahead of any markup starting at the same byte.
const escapePriority = -10

// Any ASCII punctuation may be escaped with a backslash.
var escapePattern = regexp.MustCompile("\\\\[!-/:-@\\[-`{-~]")

// Escaper lets a backslash protect the next character from being read as markup.
type Escaper struct {
	TagName  string
	AttrName string
}

// NewEscaper creates an Escaper plugin emitting ESC tags.
func NewEscaper() *Escaper {
	return &Escaper{TagName: "ESC", AttrName: "char"}
}

// Name implements markup.Plugin.
func (e *Escaper) Name() string { return EscaperName }

// Setup declares the ESC tag.
func (e *Escaper) Setup(b *markup.Builder) error {
	_, err := addTagIfMissing(b, markup.TagConfig{
		Name:       e.TagName,
		Attributes: []markup.AttributeConfig{{Name: e.AttrName, Required: true}},
	})
	return err
}

// Parse emits an ignore tag over each backslash and a self-closing tag over
// the character it escapes. The escaped character is consumed by the tag, so
// markup starting there overlaps it and is dropped.
func (e *Escaper) Parse(text string) []*markup.Tag {
	var tags []*markup.Tag
	for _, loc := range escapePattern.FindAllStringIndex(text, -1) {
		backslash := markup.NewIgnoreTag(loc[0], 1)
		backslash.SortPriority = escapePriority

		esc := markup.NewSelfClosingTag(e.TagName, loc[0]+1, 1)
		esc.SortPriority = escapePriority
		esc.SetAttribute(e.AttrName, text[loc[0]+1:loc[1]])

		tags = append(tags, backslash, esc)
	}
	return tags
}
