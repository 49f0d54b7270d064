// output.go lays resolved events over the original text to produce the tagged
// intermediate representation.
package markup

import (
	"sort"
	"strings"
)

// Root and markup element names of the intermediate representation.
const (
	richTextElement  = "rt" // root when the text carries at least one tag
	plainTextElement = "pt" // root when it carries none
	startElement     = "st" // markup of a start tag
	endElement       = "et" // markup of an end tag
	ignoreElement    = "i"  // ignored text
)

// Assemble walks events and text in lockstep. Every byte of text ends up in
// the output exactly once, either as literal text or inside a tag's markup.
// An event that does not start where the previous one ended is a defect of
// the event producer and is reported as an *EventError.
func Assemble(text string, events []Event) (string, error) {
	var sb strings.Builder
	sb.Grow(len(text) * 2)

	root := plainTextElement
	for _, ev := range events {
		if ev.Kind != EventText {
			root = richTextElement
			break
		}
	}
	sb.WriteString("<" + root + ">")

	pos := 0
	var open []*Tag
	for i, ev := range events {
		if ev.Start != pos {
			return "", &EventError{Index: i, Offset: pos, Message: "event does not start where the previous one ended"}
		}
		if ev.End < ev.Start || ev.End > len(text) {
			return "", &EventError{Index: i, Offset: pos, Message: "event span is out of range"}
		}
		span := text[ev.Start:ev.End]

		switch ev.Kind {
		case EventText:
			sb.WriteString(escapeXML(span))

		case EventIgnore:
			writeWrapped(&sb, ignoreElement, span)

		case EventOpen:
			writeStartTag(&sb, ev.Tag, false)
			if span != "" {
				writeWrapped(&sb, startElement, span)
			}
			open = append(open, ev.Tag)

		case EventClose:
			if len(open) == 0 || open[len(open)-1] != ev.Tag {
				return "", &EventError{Index: i, Offset: pos, Message: "close does not match the innermost open tag"}
			}
			open = open[:len(open)-1]
			if span != "" {
				writeWrapped(&sb, endElement, span)
			}
			sb.WriteString("</" + ev.Tag.Name + ">")

		case EventEmpty:
			if span == "" {
				writeStartTag(&sb, ev.Tag, true)
				break
			}
			writeStartTag(&sb, ev.Tag, false)
			writeWrapped(&sb, startElement, span)
			sb.WriteString("</" + ev.Tag.Name + ">")
		}
		pos = ev.End
	}

	if pos != len(text) {
		return "", &EventError{Index: len(events), Offset: pos, Message: "events do not cover the whole text"}
	}
	if len(open) > 0 {
		return "", &EventError{Index: len(events), Offset: pos, Message: "tags left open at end of text"}
	}

	sb.WriteString("</" + root + ">")
	return sb.String(), nil
}

// writeStartTag renders <NAME a="v"> with attributes sorted for stable output.
func writeStartTag(sb *strings.Builder, t *Tag, selfClosing bool) {
	sb.WriteString("<")
	sb.WriteString(t.Name)

	keys := make([]string, 0, len(t.Attributes))
	for k := range t.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(" ")
		sb.WriteString(key)
		sb.WriteString(`="`)
		sb.WriteString(escapeXML(t.Attributes[key]))
		sb.WriteString(`"`)
	}
	if selfClosing {
		sb.WriteString("/")
	}
	sb.WriteString(">")
}

func writeWrapped(sb *strings.Builder, element, text string) {
	sb.WriteString("<" + element + ">")
	sb.WriteString(escapeXML(text))
	sb.WriteString("</" + element + ">")
}

// escapeXML escapes special XML characters in a string.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	// XML parsers fold \r into \n; a character reference survives
	s = strings.ReplaceAll(s, "\r", "&#13;")
	return s
}
