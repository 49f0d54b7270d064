package render

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/charmbracelet/lipgloss"
)

// StyleMap maps upper-cased tag names to terminal styles.
type StyleMap map[string]lipgloss.Style

// basicColors maps color names accepted by [color=...] to ANSI color numbers.
var basicColors = map[string]string{
	"black": "0", "red": "1", "green": "2", "yellow": "3",
	"blue": "4", "magenta": "5", "cyan": "6", "white": "7",
	"gray": "8", "grey": "8",
}

// DefaultStyles returns the styles of the built-in tags, created on r.
func DefaultStyles(r *lipgloss.Renderer) StyleMap {
	bold := r.NewStyle().Bold(true)
	italic := r.NewStyle().Italic(true)
	strike := r.NewStyle().Strikethrough(true)
	code := r.NewStyle().Foreground(lipgloss.Color("203"))
	return StyleMap{
		"B":      bold,
		"STRONG": bold,
		"I":      italic,
		"EM":     italic,
		"U":      r.NewStyle().Underline(true),
		"S":      strike,
		"DEL":    strike,
		"C":      code,
		"CODE":   code,
		"URL":    r.NewStyle().Underline(true).Foreground(lipgloss.Color("12")),
		"QUOTE":  r.NewStyle().Faint(true),
	}
}

// ANSIRenderer styles the content of the intermediate representation for a
// terminal, without going through HTML.
type ANSIRenderer struct {
	renderer *lipgloss.Renderer
	styles   StyleMap
	// TextAttributes names tags rendered as one of their attributes, such as
	// the decoded character of an entity.
	TextAttributes map[string]string
}

// NewANSIRenderer creates a renderer. A nil r uses lipgloss' default renderer
// and nil styles the DefaultStyles.
func NewANSIRenderer(r *lipgloss.Renderer, styles StyleMap) *ANSIRenderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	if styles == nil {
		styles = DefaultStyles(r)
	}
	return &ANSIRenderer{
		renderer:       r,
		styles:         styles,
		TextAttributes: map[string]string{"HE": "char", "ESC": "char"},
	}
}

// ToANSI renders ir with the default renderer and styles.
func ToANSI(ir string) (string, error) {
	return NewANSIRenderer(nil, nil).Render(ir)
}

// Render converts ir. Nested tags are rendered inside out.
func (a *ANSIRenderer) Render(ir string) (string, error) {
	root, err := readIR(ir)
	if err != nil {
		return "", err
	}
	return a.renderChildren(root), nil
}

func (a *ANSIRenderer) renderChildren(el *etree.Element) string {
	var sb strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(a.renderElement(t))
		}
	}
	return sb.String()
}

func (a *ANSIRenderer) renderElement(el *etree.Element) string {
	if isMarkup(el) {
		return ""
	}
	name := strings.ToUpper(el.Tag)
	if attr, ok := a.TextAttributes[name]; ok {
		return el.SelectAttrValue(attr, "")
	}

	content := a.renderChildren(el)
	style, ok := a.styles[name]
	if name == "COLOR" {
		if c := colorFor(el.SelectAttrValue("color", "")); c != "" {
			style, ok = a.renderer.NewStyle().Foreground(lipgloss.Color(c)), true
		}
	}
	if !ok {
		return content
	}
	return renderLines(style, content)
}

// renderLines styles each line on its own so lipgloss does not pad lines to
// a common width.
func renderLines(style lipgloss.Style, s string) string {
	style = style.TabWidth(lipgloss.NoTabConversion)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// colorFor accepts #rgb/#rrggbb, ANSI color numbers and basic color names.
func colorFor(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if c, ok := basicColors[v]; ok {
		return c
	}
	if strings.HasPrefix(v, "#") && (len(v) == 4 || len(v) == 7) {
		return v
	}
	if v != "" && len(v) <= 3 && strings.Trim(v, "0123456789") == "" {
		return v
	}
	return ""
}
