// Package render turns the tagged intermediate representation produced by
// pkg/markup into HTML, Markdown or styled terminal text.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// Elements of the intermediate representation that carry original markup
// rather than content.
const (
	startMarkup  = "st"
	endMarkup    = "et"
	ignoreMarkup = "i"
)

// readIR parses an intermediate representation and returns its root element.
func readIR(ir string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(sanitizeXMLChars(ir)); err != nil {
		return nil, fmt.Errorf("failed to read intermediate representation: %w", err)
	}
	root := doc.Root()
	if root == nil || (root.Tag != "rt" && root.Tag != "pt") {
		return nil, fmt.Errorf("intermediate representation must have an <rt> or <pt> root")
	}
	return root, nil
}

func isMarkup(el *etree.Element) bool {
	switch el.Tag {
	case startMarkup, endMarkup, ignoreMarkup:
		return true
	}
	return false
}

// sanitizeXMLChars replaces characters XML 1.0 cannot carry with U+FFFD. The
// input text is free to contain them; an XML reader is not.
func sanitizeXMLChars(s string) string {
	clean := true
	for _, r := range s {
		if !isXMLChar(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if !isXMLChar(r) {
			r = utf8.RuneError
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r == utf8.RuneError:
		return true
	case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return true
}
