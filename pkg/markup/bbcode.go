// bbcode.go implements the literal markup pass for [NAME]...[/NAME] bracket syntax.
package markup

import (
	"fmt"
	"strings"
)

// bracketToken is one bracket tag recognized by parseBracketTag.
type bracketToken struct {
	typ          TagType
	name         string            // name as written, e.g. "*" or "url"
	defaultValue string            // value of [name=value]
	hasDefault   bool
	params       map[string]string // lower-cased keys
}

// TokenizeBBCode scans input for bracket markup and returns a tag for every
// bracket whose name cfg declares, directly or through an alias. Recognized forms:
//   - [NAME], [NAME=value] or [NAME key=value ...] - start tag
//   - [/NAME] - end tag
//   - [NAME/] or [NAME key=value/] - self-closing tag
//
// Each end tag is paired with the nearest preceding unpaired start tag of the
// same name, so that dropping a start tag also drops its end tag. Start tags
// of void tags are read as self-closing.
func TokenizeBBCode(input string, cfg *Config) []*Tag {
	var tags []*Tag
	unpaired := make(map[string][]*Tag)

	pos := 0
	for pos < len(input) {
		i := strings.IndexByte(input[pos:], '[')
		if i < 0 {
			break
		}
		pos += i

		token, endPos, err := parseBracketTag(input, pos)
		if err != nil {
			// Not a valid tag - treat '[' as text
			pos++
			continue
		}
		name, known := cfg.ResolveName(token.name)
		if !known {
			pos++
			continue
		}

		if token.typ == StartTag && cfg.entry(name).config.Void {
			token.typ = SelfClosingTag
		}

		tag := newTag(token.typ, name, pos, endPos-pos)
		tag.Source = SourceMarkup
		for k, v := range token.params {
			tag.SetAttribute(k, v)
		}
		if token.hasDefault {
			tag.SetAttribute(defaultAttribute(cfg, name), token.defaultValue)
		}

		switch token.typ {
		case StartTag:
			unpaired[name] = append(unpaired[name], tag)
		case EndTag:
			if starts := unpaired[name]; len(starts) > 0 {
				starts[len(starts)-1].PairWith(tag)
				unpaired[name] = starts[:len(starts)-1]
			}
		}

		tags = append(tags, tag)
		pos = endPos
	}
	return tags
}

// defaultAttribute returns the attribute receiving [name=value].
func defaultAttribute(cfg *Config, name string) string {
	if entry := cfg.entry(name); entry != nil && entry.config.DefaultAttribute != "" {
		return entry.config.DefaultAttribute
	}
	return strings.ToLower(name)
}

// parseBracketTag attempts to parse a tag starting at pos.
// Returns the token, the position after the tag, and any error.
func parseBracketTag(input string, pos int) (bracketToken, int, error) {
	if pos >= len(input) || input[pos] != '[' {
		return bracketToken{}, pos, fmt.Errorf("expected '['")
	}

	startPos := pos
	pos++ // skip '['

	// Check for end tag [/NAME]
	isEndTag := false
	if pos < len(input) && input[pos] == '/' {
		isEndTag = true
		pos++
	}

	nameStart := pos
	for pos < len(input) && isValidMarkupNameChar(rune(input[pos])) {
		pos++
	}
	if pos == nameStart {
		return bracketToken{}, startPos, fmt.Errorf("empty tag name")
	}
	name := input[nameStart:pos]

	// For end tags, expect immediate ']'
	if isEndTag {
		if pos >= len(input) || input[pos] != ']' {
			return bracketToken{}, startPos, fmt.Errorf("unclosed end tag")
		}
		return bracketToken{typ: EndTag, name: name}, pos + 1, nil
	}

	token := bracketToken{typ: StartTag, name: name, params: make(map[string]string)}

	// [NAME=value]
	if pos < len(input) && input[pos] == '=' {
		value, newPos, err := parseParamValue(input, pos+1)
		if err != nil {
			return bracketToken{}, startPos, err
		}
		token.defaultValue = value
		token.hasDefault = true
		pos = newPos
	}

	params, endPos, selfClosing, err := parseParametersUntilClose(input, pos)
	if err != nil {
		return bracketToken{}, startPos, err
	}
	for k, v := range params {
		token.params[k] = v
	}
	if selfClosing {
		token.typ = SelfClosingTag
	}
	return token, endPos, nil
}

// parseParametersUntilClose parses key=value parameters until ']' or '/]'.
// Returns the parameter map, position after ']', whether the tag is
// self-closing, and any error.
func parseParametersUntilClose(input string, pos int) (map[string]string, int, bool, error) {
	params := make(map[string]string)

	for pos < len(input) {
		// Skip whitespace
		for pos < len(input) && isSpace(input[pos]) {
			pos++
		}
		if pos >= len(input) {
			break
		}

		// Check for end of tag
		if input[pos] == ']' {
			return params, pos + 1, false, nil
		}

		// Check for self-close marker
		if input[pos] == '/' {
			if pos+1 >= len(input) || input[pos+1] != ']' {
				return nil, pos, false, fmt.Errorf("expected ']' after '/'")
			}
			return params, pos + 2, true, nil
		}

		// Parameter keys start with a letter so they stay valid XML names
		if !isLetter(input[pos]) {
			return nil, pos, false, fmt.Errorf("expected parameter key or ']'")
		}
		keyStart := pos
		for pos < len(input) && isValidMacroNameChar(rune(input[pos])) {
			pos++
		}
		key := strings.ToLower(input[keyStart:pos])

		// Key without value - treat as boolean true
		if pos >= len(input) || input[pos] != '=' {
			params[key] = "true"
			continue
		}
		pos++ // skip '='

		value, newPos, err := parseParamValue(input, pos)
		if err != nil {
			return nil, pos, false, err
		}
		params[key] = value
		pos = newPos
	}

	return nil, pos, false, fmt.Errorf("unclosed bracket tag")
}

// parseParamValue parses a parameter value, handling quoted strings.
// Escaped quotes (\' or \") are unescaped in the returned value. Unquoted
// values run until whitespace or ']', so [url=http://example.com/] keeps its
// trailing slash.
func parseParamValue(input string, pos int) (string, int, error) {
	if pos >= len(input) {
		return "", pos, fmt.Errorf("unexpected end of input")
	}

	if input[pos] == '"' || input[pos] == '\'' {
		quoteChar := input[pos]
		pos++ // skip opening quote
		valueStart := pos
		var value strings.Builder

		for pos < len(input) {
			if input[pos] == quoteChar {
				value.WriteString(input[valueStart:pos])
				return value.String(), pos + 1, nil
			}
			if input[pos] == '\\' && pos+1 < len(input) && input[pos+1] == quoteChar {
				value.WriteString(input[valueStart:pos])
				value.WriteByte(quoteChar)
				pos += 2 // skip backslash and quote
				valueStart = pos
				continue
			}
			pos++
		}
		return "", pos, fmt.Errorf("unclosed quoted value")
	}

	valueStart := pos
	for pos < len(input) && !isSpace(input[pos]) && input[pos] != ']' {
		pos++
	}
	return input[valueStart:pos], pos, nil
}

// isValidMacroNameChar returns true if r is valid in a tag name or parameter key.
func isValidMacroNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

// isValidMarkupNameChar additionally accepts the '*' used by list item aliases.
func isValidMarkupNameChar(r rune) bool {
	return isValidMacroNameChar(r) || r == '*'
}

// isSpace reports ASCII whitespace. Bytes of multi-byte characters are never
// separators, so values like [quote=Åsa] stay whole.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
