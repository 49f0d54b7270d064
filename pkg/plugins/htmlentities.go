package plugins

import (
	"html"
	"regexp"

	"github.com/open-cli-collective/rtx/pkg/markup"
)

// HTMLEntitiesName is the registry name of the HTMLEntities plugin.
const HTMLEntitiesName = "htmlentities"

var entityPattern = regexp.MustCompile(`&(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#[xX][0-9a-fA-F]+);`)

// HTMLEntities replaces HTML character references with the character they stand for.
type HTMLEntities struct {
	TagName  string
	AttrName string
}

// NewHTMLEntities creates an HTMLEntities plugin emitting HE tags.
func NewHTMLEntities() *HTMLEntities {
	return &HTMLEntities{TagName: "HE", AttrName: "char"}
}

// Name implements markup.Plugin.
func (h *HTMLEntities) Name() string { return HTMLEntitiesName }

// Setup declares the HE tag.
func (h *HTMLEntities) Setup(b *markup.Builder) error {
	_, err := addTagIfMissing(b, markup.TagConfig{
		Name:       h.TagName,
		Attributes: []markup.AttributeConfig{{Name: h.AttrName, Required: true}},
	})
	return err
}

// Parse emits a self-closing tag over each entity that decodes. Unknown
// entities such as &bogus; are left alone.
func (h *HTMLEntities) Parse(text string) []*markup.Tag {
	var tags []*markup.Tag
	for _, loc := range entityPattern.FindAllStringIndex(text, -1) {
		entity := text[loc[0]:loc[1]]
		char := html.UnescapeString(entity)
		if char == entity {
			continue
		}
		t := markup.NewSelfClosingTag(h.TagName, loc[0], loc[1]-loc[0])
		t.SetAttribute(h.AttrName, char)
		tags = append(tags, t)
	}
	return tags
}
