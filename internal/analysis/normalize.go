package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize returns the lowercase form of text used by every matching stage.
// The original-case text is kept by the caller for line-oriented extraction.
func Normalize(text string) string {
	return strings.ToLower(text)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// countWholeWord counts non-overlapping occurrences of term in text where the match
// is not adjacent to a letter, digit or underscore. Both arguments are expected to be
// lowercase already.
func countWholeWord(text, term string) int {
	if term == "" {
		return 0
	}

	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)
	checkBefore := isWordRune(first)
	checkAfter := isWordRune(last)

	count := 0
	offset := 0
	for offset <= len(text)-len(term) {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(term)

		ok := true
		if checkBefore && start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:start])
			ok = !isWordRune(prev)
		}
		if ok && checkAfter && end < len(text) {
			next, _ := utf8.DecodeRuneInString(text[end:])
			ok = !isWordRune(next)
		}

		if ok {
			count++
			offset = end
			continue
		}
		// step past the first rune of this candidate and keep scanning
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return count
}

// containsWholeWord reports whether term occurs at least once on word boundaries.
func containsWholeWord(text, term string) bool {
	return countWholeWord(text, term) > 0
}
