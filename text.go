package aeo

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// StripMarkup removes HTML tags from s and decodes character references.
// Script and style element contents are dropped. Input without markup is
// returned with entities decoded.
func StripMarkup(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))

	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			if isRawTextElement(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawTextElement(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawTextElement(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

// PlainText strips markup and collapses all whitespace runs to single spaces.
func PlainText(s string) string {
	return strings.Join(strings.Fields(StripMarkup(s)), " ")
}

// Truncate shortens s to at most limit runes, appending Ellipsis when text
// was cut. Trailing whitespace before the ellipsis is trimmed.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace) + Ellipsis
}

// Slugify converts s into a lower-kebab URL path segment.
// Example: "Machine Learning & AI" → "machine-learning-ai"
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
