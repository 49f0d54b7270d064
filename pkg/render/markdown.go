package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/glamour"
)

// ToMarkdown converts an HTML fragment, as produced by ToHTML, to Markdown.
func ToMarkdown(html string) (string, error) {
	if html == "" {
		return "", nil
	}
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// TerminalOptions configures ToTerminal.
type TerminalOptions struct {
	Style string // "dark", "light", "notty", a style file path, or "auto"
	Width int    // word wrap width, 0 = glamour default
}

// ToTerminal renders Markdown for display in a terminal.
func ToTerminal(markdown string, opts TerminalOptions) (string, error) {
	var options []glamour.TermRendererOption
	if opts.Style != "" && opts.Style != "auto" {
		options = append(options, glamour.WithStylePath(opts.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if opts.Width > 0 {
		options = append(options, glamour.WithWordWrap(opts.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
