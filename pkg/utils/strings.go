package utils

import (
	"strings"
	"unicode/utf8"
)

// RuneLen returns the length of s in characters, not bytes
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// CollapseWhitespace replaces every run of whitespace with a single space
// and trims both ends
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes keeps at most maxLen characters of s, without an ellipsis.
// Never splits a multi-byte character.
func TruncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		// byte length bounds rune length
		return s
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i]
		}
		n++
	}
	return s
}

// ShortID returns the first n characters of a session ID for display
func ShortID(id string, n int) string {
	return TruncateRunes(id, n)
}
