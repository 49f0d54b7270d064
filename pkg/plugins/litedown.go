package plugins

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/open-cli-collective/rtx/pkg/markup"
)

// LitedownName is the registry name of the Litedown plugin.
const LitedownName = "litedown"

// Tag names emitted by Litedown.
const (
	emTag     = "EM"
	strongTag = "STRONG"
	delTag    = "DEL"
	codeTag   = "C"
)

// litedownParser only runs the inline parse; nothing is rendered.
var litedownParser = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough),
).Parser()

// Litedown recognizes Markdown emphasis, strong emphasis, strikethrough and
// code spans, and marks their delimiters as tags.
type Litedown struct{}

// NewLitedown creates a Litedown plugin.
func NewLitedown() *Litedown {
	return &Litedown{}
}

// Name implements markup.Plugin.
func (l *Litedown) Name() string { return LitedownName }

// Setup declares EM, STRONG, DEL and C.
func (l *Litedown) Setup(b *markup.Builder) error {
	for _, name := range []string{emTag, strongTag, delTag, codeTag} {
		if _, err := addTagIfMissing(b, markup.TagConfig{Name: name}); err != nil {
			return err
		}
	}
	return nil
}

// Parse runs goldmark over text and maps inline nodes back to byte offsets.
// Nodes whose delimiters cannot be located exactly are skipped.
func (l *Litedown) Parse(src string) []*markup.Tag {
	source := []byte(src)
	doc := litedownParser.Parse(text.NewReader(source))

	var tags []*markup.Tag
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var name string
		switch node := n.(type) {
		case *ast.Emphasis:
			name = emTag
			if node.Level == 2 {
				name = strongTag
			}
		case *extast.Strikethrough:
			name = delTag
		case *ast.CodeSpan:
			name = codeTag
		default:
			return ast.WalkContinue, nil
		}

		start, end, ok := nodeSpan(n, source)
		if !ok {
			return ast.WalkContinue, nil
		}
		cs, ce, ok := contentSpan(n, source)
		if !ok {
			return ast.WalkContinue, nil
		}
		open, closing := markup.NewTagPair(name, start, cs-start, ce, end-ce)
		tags = append(tags, open, closing)
		return ast.WalkContinue, nil
	})
	return tags
}

// contentSpan returns the offsets of the first and last byte covered by the
// node's children.
func contentSpan(n ast.Node, source []byte) (int, int, bool) {
	first, last := n.FirstChild(), n.LastChild()
	if first == nil {
		return 0, 0, false
	}
	start, _, ok := nodeSpan(first, source)
	if !ok {
		return 0, 0, false
	}
	_, end, ok := nodeSpan(last, source)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// nodeSpan returns the offsets of an inline node including its delimiters.
func nodeSpan(n ast.Node, source []byte) (int, int, bool) {
	switch node := n.(type) {
	case *ast.Text:
		return node.Segment.Start, node.Segment.Stop, true

	case *ast.Emphasis:
		cs, ce, ok := contentSpan(n, source)
		if !ok {
			return 0, 0, false
		}
		start, end := cs-node.Level, ce+node.Level
		if start < 0 || end > len(source) {
			return 0, 0, false
		}
		c := source[start]
		if (c != '*' && c != '_') || !isRun(source[start:cs], c) || !isRun(source[ce:end], c) {
			return 0, 0, false
		}
		return start, end, true

	case *extast.Strikethrough:
		cs, ce, ok := contentSpan(n, source)
		if !ok {
			return 0, 0, false
		}
		width := runBefore(source, cs, '~')
		if width == 0 || width > 2 || runAfter(source, ce, '~') < width {
			return 0, 0, false
		}
		return cs - width, ce + width, true

	case *ast.CodeSpan:
		cs, ce, ok := contentSpan(n, source)
		if !ok {
			return 0, 0, false
		}
		return codeSpanDelimiters(source, cs, ce)
	}
	return 0, 0, false
}

// codeSpanDelimiters finds the backtick runs around code span content. The
// content may have had one padding space stripped on each side.
func codeSpanDelimiters(source []byte, cs, ce int) (int, int, bool) {
	open := runBefore(source, cs, '`')
	if open == 0 && cs > 0 && source[cs-1] == ' ' {
		cs--
		open = runBefore(source, cs, '`')
	}
	if open == 0 {
		return 0, 0, false
	}
	closing := runAfter(source, ce, '`')
	if closing == 0 && ce < len(source) && source[ce] == ' ' {
		ce++
		closing = runAfter(source, ce, '`')
	}
	if closing != open {
		return 0, 0, false
	}
	return cs - open, ce + closing, true
}

func isRun(b []byte, c byte) bool {
	for _, x := range b {
		if x != c {
			return false
		}
	}
	return true
}

func runBefore(source []byte, pos int, c byte) int {
	n := 0
	for pos-n > 0 && source[pos-n-1] == c {
		n++
	}
	return n
}

func runAfter(source []byte, pos int, c byte) int {
	n := 0
	for pos+n < len(source) && source[pos+n] == c {
		n++
	}
	return n
}
