package security

import (
	"html"
	"strings"
)

// Sanitize trims surrounding whitespace and HTML-escapes the five
// characters that are significant in markup (& < > ' ").
func Sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
