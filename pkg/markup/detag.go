package markup

import (
	"fmt"
	"strings"
)

var unescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&#13;", "\r",
	"&amp;", "&",
)

// Detag strips every structural marker from an intermediate representation
// and returns the original text. Markup kept in <st>, <et> and <i> elements is
// part of the original text and is preserved.
//
// The scanner only understands what Assemble writes: elements, attribute
// values without a literal '>', and the entities escapeXML produces. Control
// characters pass through untouched, which a conforming XML decoder would reject.
func Detag(ir string) (string, error) {
	root, ok := rootElement(ir)
	if !ok {
		return "", fmt.Errorf("intermediate representation must start with <%s> or <%s>", richTextElement, plainTextElement)
	}
	closing := "</" + root + ">"
	if !strings.HasSuffix(ir, closing) {
		return "", fmt.Errorf("intermediate representation is not closed by %s", closing)
	}
	body := ir[len(root)+2 : len(ir)-len(closing)]

	var sb strings.Builder
	sb.Grow(len(body))
	pos := 0
	for pos < len(body) {
		i := strings.IndexByte(body[pos:], '<')
		if i < 0 {
			sb.WriteString(body[pos:])
			break
		}
		sb.WriteString(body[pos : pos+i])
		pos += i
		end := strings.IndexByte(body[pos:], '>')
		if end < 0 {
			return "", fmt.Errorf("unterminated element at offset %d", pos+len(root)+2)
		}
		pos += end + 1
	}
	return unescaper.Replace(sb.String()), nil
}

func rootElement(ir string) (string, bool) {
	for _, root := range []string{richTextElement, plainTextElement} {
		if strings.HasPrefix(ir, "<"+root+">") {
			return root, true
		}
	}
	return "", false
}
