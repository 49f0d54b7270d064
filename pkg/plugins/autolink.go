package plugins

import (
	"regexp"
	"sort"
	"strings"

	"github.com/open-cli-collective/rtx/pkg/markup"
)

// AutolinkName is the registry name of the Autolink plugin.
const AutolinkName = "autolink"

// DefaultSchemes are the URL schemes Autolink recognizes unless configured otherwise.
var DefaultSchemes = []string{"ftp", "http", "https"}

// Autolink turns bare URLs into URL tags.
type Autolink struct {
	Schemes  []string
	TagName  string // defaults to URL
	AttrName string // defaults to url

	re *regexp.Regexp
}

// NewAutolink creates an Autolink plugin for DefaultSchemes.
func NewAutolink(schemes ...string) *Autolink {
	if len(schemes) == 0 {
		schemes = DefaultSchemes
	}
	a := &Autolink{
		Schemes:  append([]string(nil), schemes...),
		TagName:  "URL",
		AttrName: "url",
	}
	a.re = buildURLPattern(a.Schemes)
	return a
}

// Name implements markup.Plugin.
func (a *Autolink) Name() string { return AutolinkName }

// Setup declares the URL tag. Links never nest inside links.
func (a *Autolink) Setup(b *markup.Builder) error {
	added, err := addTagIfMissing(b, markup.TagConfig{
		Name:       a.TagName,
		Attributes: []markup.AttributeConfig{{Name: a.AttrName, Required: true}},
	})
	if err != nil || !added {
		return err
	}
	return b.AddRule(a.TagName, markup.DenyDescendant, a.TagName)
}

// Parse emits a zero-width tag pair around every URL, so the URL itself stays
// the text content of the link.
func (a *Autolink) Parse(text string) []*markup.Tag {
	var tags []*markup.Tag
	for _, loc := range a.re.FindAllStringIndex(text, -1) {
		start, end := loc[0], trimURL(text, loc[0], loc[1])
		if end <= start {
			continue
		}
		open, closing := markup.NewTagPair(a.TagName, start, 0, end, 0)
		open.SetAttribute(a.AttrName, text[start:end])
		tags = append(tags, open, closing)
	}
	return tags
}

func buildURLPattern(schemes []string) *regexp.Regexp {
	quoted := make([]string, len(schemes))
	for i, s := range schemes {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(s))
	}
	// longest first so https is not cut to http
	sort.Slice(quoted, func(i, j int) bool {
		if len(quoted[i]) != len(quoted[j]) {
			return len(quoted[i]) > len(quoted[j])
		}
		return quoted[i] < quoted[j]
	})
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)://[^\s\[\]<>"]+`)
}

// trimURL drops trailing punctuation and unbalanced closing parentheses.
func trimURL(text string, start, end int) int {
	for end > start {
		c := text[end-1]
		switch c {
		case '.', ',', ';', ':', '!', '?', '\'':
			end--
			continue
		case ')':
			url := text[start:end]
			if strings.Count(url, "(") < strings.Count(url, ")") {
				end--
				continue
			}
		}
		break
	}
	return end
}
