// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	rich   *bluemonday.Policy
	strict *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	once.Do(func() {
		rich = bluemonday.UGCPolicy()
		rich.AllowElements("u", "s", "mark")
		rich.AllowAttrs("class").OnElements("table", "tr", "td", "th")
		rich.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
		strict = bluemonday.StrictPolicy()
	})
	return rich, strict
}

// Sanitize cleans user-authored rich text (announcement bodies,
// descriptions). Formatting, lists, tables and safe links survive; script,
// style, iframes, event handlers and javascript: URLs do not.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	p, _ := policies()
	return strings.TrimSpace(p.Sanitize(s))
}

// StripTags removes all markup from single-line fields such as names and
// titles. Entities produced by the sanitizer are decoded so stored values
// read as plain text.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	_, p := policies()
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(s)))
}

// IsPlainText reports whether s contains no markup.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
