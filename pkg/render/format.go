package render

import (
	"fmt"
	"strings"
)

// Format is an output format of Render.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatTerminal Format = "terminal"
	FormatANSI     Format = "ansi"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatHTML, FormatMarkdown, FormatTerminal, FormatANSI}

// ParseFormat validates a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "md" {
		return FormatMarkdown, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid output format %q: must be one of %s", s, FormatNames())
}

// FormatNames returns the supported formats as a comma-separated list.
func FormatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Options configures Render.
type Options struct {
	Mapping  HTMLMapping   // html, markdown and terminal
	Terminal TerminalOptions
	ANSI     *ANSIRenderer // nil uses the default styles
}

// Render converts ir into format. Markdown and terminal output go through the
// HTML form of the document.
func Render(ir string, format Format, opts Options) (string, error) {
	if format == FormatANSI {
		a := opts.ANSI
		if a == nil {
			a = NewANSIRenderer(nil, nil)
		}
		return a.Render(ir)
	}

	html, err := ToHTML(ir, opts.Mapping)
	if err != nil {
		return "", err
	}
	switch format {
	case FormatHTML:
		return html, nil
	case FormatMarkdown:
		return ToMarkdown(html)
	case FormatTerminal:
		md, err := ToMarkdown(html)
		if err != nil {
			return "", err
		}
		return ToTerminal(md, opts.Terminal)
	}
	return "", fmt.Errorf("invalid output format %q", format)
}
