package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// containsTerm reports whether term occurs in text as a whole word or
// phrase, ignoring case.
func containsTerm(text, term string) bool {
	return countTerm(strings.ToLower(text), strings.ToLower(term)) > 0
}

// countTerm counts whole-word occurrences of term in text. Both arguments
// must already be lowercase.
func countTerm(text, term string) int {
	if term == "" {
		return 0
	}
	var n int
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(term)
		if boundaryBefore(text, start, term) && boundaryAfter(text, end, term) {
			n++
		}
		offset = start + 1
	}
	return n
}

func boundaryBefore(text string, start int, term string) bool {
	first, _ := utf8.DecodeRuneInString(term)
	if !isWordRune(first) || start == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(prev)
}

func boundaryAfter(text string, end int, term string) bool {
	last, _ := utf8.DecodeLastRuneInString(term)
	if !isWordRune(last) || end >= len(text) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(next)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if containsTerm(text, term) {
			return true
		}
	}
	return false
}
