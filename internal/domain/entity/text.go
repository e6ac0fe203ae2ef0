package entity

import "unicode/utf8"

// Truncate shortens s to limit characters, appending "..." when it was cut
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
