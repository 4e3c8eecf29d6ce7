// internal/app/system/search/search.go
package search

import (
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxQueryLen bounds the search string so a client cannot send a huge
// pattern.
const MaxQueryLen = 100

// Fold normalizes a user-entered query the same way *_ci fields are
// stored: trimmed, truncated, lowercased and diacritics-stripped.
func Fold(q string) string {
	q = strings.TrimSpace(q)
	if len(q) > MaxQueryLen {
		q = q[:MaxQueryLen]
	}
	return text.Fold(q)
}

// Regex returns a substring match for q against a folded field. Regex
// metacharacters in q are escaped.
func Regex(q string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(Fold(q))}
}

// Apply adds a case-insensitive substring match on the given folded
// fields to filter. With more than one field any may match. An empty q
// leaves filter unchanged.
func Apply(filter bson.M, q string, fields ...string) {
	if Fold(q) == "" || len(fields) == 0 {
		return
	}
	re := Regex(q)
	if len(fields) == 1 {
		filter[fields[0]] = re
		return
	}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	filter["$or"] = or
}
