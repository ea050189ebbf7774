// ABOUTME: HTML utilities for turning untrusted markup into plain text
// ABOUTME: Used for titles, descriptions and listing excerpts shown outside the sandbox

package html

import (
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripHTML removes all markup and decodes entities, collapsing whitespace
func StripHTML(s string) string {
	text := strict.Sanitize(s)
	text = stdhtml.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens plain text to at most max runes, appending an ellipsis when cut
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}
