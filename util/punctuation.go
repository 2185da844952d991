package util

import (
	"unicode"
)

// IsPunctuation reports whether s is non-empty and made up only of punctuation or symbols.
func IsPunctuation(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isPunct(r) {
			return false
		}
	}
	return true
}

func isPunct(r rune) bool {
	if r == '\'' {
		// apostrophes belong to words ("bee's")
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// DropPunctuation returns tokens without the ones that are pure punctuation.
// The input slice is not modified.
func DropPunctuation(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !IsPunctuation(t) {
			out = append(out, t)
		}
	}
	return out
}
