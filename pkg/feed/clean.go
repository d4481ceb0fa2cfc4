package feed

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// CleanText removes markup from s and collapses all whitespace runs into single spaces
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	// strict policy escapes entities in the remaining text, bring them back
	text := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts s to at most limit characters
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit { // byte length is an upper bound of rune count
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
