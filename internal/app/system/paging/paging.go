// internal/app/system/paging/paging.go
package paging

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when ?limit is absent or invalid.
const DefaultLimit = 20

// MaxLimit caps ?limit so a client cannot pull a whole collection.
const MaxLimit = 100

// MaxPage caps ?page. Any page past it is empty for every collection this
// service holds, and the cap keeps Skip far from integer overflow.
const MaxPage = 1_000_000

// Params is a parsed page request.
type Params struct {
	Page  int    // 1-based
	Limit int    // rows per page, 1..MaxLimit
	Sort  string // key into the caller's Sorts table
}

// Skip returns the number of documents before this page. It is never
// negative, even for Params built without Parse.
func (p Params) Skip() int64 {
	page, limit := p.Page, p.Limit
	if page < 1 || limit < 1 {
		return 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return int64(page-1) * int64(limit)
}

// Sorts maps a public ?sort value to a Mongo sort document. Every list
// endpoint declares its own table; unknown values fall back to Default.
type Sorts struct {
	Default string
	Orders  map[string]bson.D
}

// Order returns the sort document for key, falling back to the default.
// _id is appended as a tiebreaker so pages are stable.
func (s Sorts) Order(key string) bson.D {
	d, ok := s.Orders[key]
	if !ok {
		d = s.Orders[s.Default]
	}
	out := make(bson.D, 0, len(d)+1)
	out = append(out, d...)
	for _, e := range d {
		if e.Key == "_id" {
			return out
		}
	}
	dir := 1
	if len(d) > 0 {
		if v, ok := d[len(d)-1].Value.(int); ok {
			dir = v
		}
	}
	return append(out, bson.E{Key: "_id", Value: dir})
}

// Known reports whether key is one of the declared sorts.
func (s Sorts) Known(key string) bool {
	_, ok := s.Orders[key]
	return ok
}

// Parse reads ?page, ?limit and ?sort. Out-of-range values are clamped
// rather than rejected, matching how list UIs send them.
func Parse(r *http.Request, sorts Sorts) Params {
	p := Params{
		Page:  atoiDefault(query.Get(r, "page"), 1),
		Limit: atoiDefault(query.Get(r, "limit"), DefaultLimit),
		Sort:  query.Get(r, "sort"),
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if !sorts.Known(p.Sort) {
		p.Sort = sorts.Default
	}
	return p
}

// FindOptions returns Find options for this page under sorts.
func (p Params) FindOptions(sorts Sorts) *options.FindOptions {
	return options.Find().
		SetSort(sorts.Order(p.Sort)).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
}

// Meta is the pagination block returned alongside list items.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Count      int   `json:"count"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// BuildMeta computes the pagination block. total is the number of
// documents matching the filter before skip/limit; count is the number of
// rows actually returned.
func BuildMeta(p Params, count int, total int64) Meta {
	pages := 0
	if total > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Count:      count,
		TotalItems: total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}

// Page is the JSON envelope for paged lists.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}

// NewPage wraps items (never nil in JSON) with their pagination block.
func NewPage[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Pagination: BuildMeta(p, len(items), total)}
}

// Find counts the documents matching filter and loads page p of them.
// The total is the unpaged count.
func Find[T any](ctx context.Context, c *mongo.Collection, filter bson.M, p Params, sorts Sorts) ([]T, int64, error) {
	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items := []T{}
	if total == 0 || p.Skip() >= total {
		return items, total, nil
	}
	cur, err := c.Find(ctx, filter, p.FindOptions(sorts))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
