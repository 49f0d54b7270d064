package render

import (
	"net/url"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// ElementMapping describes how one tag is written as HTML.
type ElementMapping struct {
	Element       string            // HTML element; empty to emit only the content
	Attributes    map[string]string // tag attribute -> HTML attribute
	Styles        map[string]string // tag attribute -> CSS property
	TextAttribute string            // render this attribute's value instead of the content
}

// HTMLMapping maps upper-cased tag names to their HTML form. Tags without a
// mapping are unwrapped: their content is kept, the tag is not.
type HTMLMapping map[string]ElementMapping

// HTML elements that never have content.
var voidElements = map[string]bool{
	"area": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

// Attributes holding URLs, checked against safeSchemes.
var urlAttributes = map[string]bool{"href": true, "src": true, "cite": true}

var safeSchemes = map[string]bool{"": true, "http": true, "https": true, "ftp": true, "mailto": true}

// HTMLRenderer writes the intermediate representation as an HTML fragment.
type HTMLRenderer struct {
	mapping HTMLMapping
}

// NewHTMLRenderer creates a renderer for mapping.
func NewHTMLRenderer(mapping HTMLMapping) *HTMLRenderer {
	return &HTMLRenderer{mapping: mapping}
}

// ToHTML renders ir with mapping.
func ToHTML(ir string, mapping HTMLMapping) (string, error) {
	return NewHTMLRenderer(mapping).Render(ir)
}

// Render converts ir. Original markup (<st>, <et>, <i>) is dropped.
func (r *HTMLRenderer) Render(ir string) (string, error) {
	root, err := readIR(ir)
	if err != nil {
		return "", err
	}
	out := etree.NewDocument()
	r.convertChildren(root, &out.Element)
	return out.WriteToString()
}

func (r *HTMLRenderer) convertChildren(src, dst *etree.Element) {
	for _, tok := range src.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			dst.CreateText(t.Data)
		case *etree.Element:
			r.convertElement(t, dst)
		}
	}
}

func (r *HTMLRenderer) convertElement(src, dst *etree.Element) {
	if isMarkup(src) {
		return
	}
	m, ok := r.mapping[strings.ToUpper(src.Tag)]
	if !ok || m.Element == "" {
		if ok && m.TextAttribute != "" {
			dst.CreateText(src.SelectAttrValue(m.TextAttribute, ""))
			return
		}
		r.convertChildren(src, dst)
		return
	}

	el := dst.CreateElement(m.Element)
	for _, irAttr := range sortedKeys(m.Attributes) {
		value := src.SelectAttr(irAttr)
		if value == nil {
			continue
		}
		htmlAttr := m.Attributes[irAttr]
		if urlAttributes[htmlAttr] && !isSafeURL(value.Value) {
			continue
		}
		el.CreateAttr(htmlAttr, value.Value)
	}
	if style := inlineStyle(src, m.Styles); style != "" {
		el.CreateAttr("style", style)
	}

	if voidElements[m.Element] {
		return
	}
	if m.TextAttribute != "" {
		el.CreateText(src.SelectAttrValue(m.TextAttribute, ""))
	} else {
		r.convertChildren(src, el)
	}
	if len(el.Child) == 0 {
		// keeps the end tag: <strong/> is not HTML
		el.CreateText("")
	}
}

// inlineStyle builds a style attribute from the mapped attributes. Values
// that could escape the declaration are skipped.
func inlineStyle(src *etree.Element, styles map[string]string) string {
	var decls []string
	for _, irAttr := range sortedKeys(styles) {
		value := src.SelectAttr(irAttr)
		if value == nil || !isSafeCSSValue(value.Value) {
			continue
		}
		decls = append(decls, styles[irAttr]+": "+value.Value)
	}
	return strings.Join(decls, "; ")
}

func isSafeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return safeSchemes[strings.ToLower(u.Scheme)]
}

func isSafeCSSValue(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '#' || r == '%' || r == '.' || r == '-' || r == ' ':
		default:
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
