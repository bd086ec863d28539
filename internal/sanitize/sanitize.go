// Package sanitize reduces HTML fragments from catalog exports to plain text.
package sanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripHTML drops every tag and attribute from s and returns the remaining
// text in document order with entities decoded. The bodies of script and
// style elements are dropped along with their tags. Malformed markup is
// handled best effort; the function never fails.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	// bluemonday re-escapes text nodes, so decode once at the end.
	return html.UnescapeString(strict.Sanitize(s))
}
