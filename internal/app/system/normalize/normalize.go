// internal/app/system/normalize/normalize.go
package normalize

import (
	"sort"
	"strings"
)

// Email trims and lowercases an email address.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Name trims surrounding space and collapses interior runs of whitespace.
// Case is preserved.
func Name(s string) string { return strings.Join(strings.Fields(s), " ") }

// Status lowercases and trims a status value.
func Status(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Role lowercases and trims a role value.
func Role(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Category lowercases and trims a category or type value.
func Category(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// QueryParam trims a raw query value. Case is preserved.
func QueryParam(s string) string { return strings.TrimSpace(s) }

// Filter normalizes a list filter value; "all" means no filter.
func Filter(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return ""
	}
	return s
}

// Code uppercases an offer or certificate code and strips spaces.
func Code(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// Tags lowercases, trims and dedupes a list of free-form tags such as
// skills or languages. Empty entries are dropped and the result is sorted.
func Tags(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.Join(strings.Fields(s), " "))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
