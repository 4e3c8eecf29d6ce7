// Package cache is a small read-through cache for public listings and
// admin stats. Redis backs it in deployment; tests and single-node setups
// without Redis use the in-process Memory cache or Nop. A cache failure
// never fails a request: the helpers log and fall through to MongoDB.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Namespaces used for keys and invalidation.
const (
	NSMosques       = "mosques"
	NSBusinesses    = "businesses"
	NSOffers        = "offers"
	NSAnnouncements = "announcements"
	NSNeeds         = "needs"
	NSStats         = "stats"
)

// Cache stores opaque values with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// Invalidate removes every key in namespace ns.
	Invalidate(ctx context.Context, ns string) error
	Ping(ctx context.Context) error
	Close() error
}

// Key builds a stable key for ns from query parameters: the parameters are
// sorted and hashed so equal queries share an entry regardless of order.
func Key(ns string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		vals := append([]string(nil), params[k]...)
		sort.Strings(vals)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(vals, ","))
	}
	sum := md5.Sum([]byte(b.String()))
	return ns + ":" + hex.EncodeToString(sum[:])
}

// Helper wraps a Cache with JSON encoding, a default TTL and logging.
type Helper struct {
	c   Cache
	ttl time.Duration
	log *zap.Logger
}

// NewHelper returns a Helper; a nil c behaves like Nop.
func NewHelper(c Cache, ttl time.Duration, logger *zap.Logger) *Helper {
	if c == nil {
		c = Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Helper{c: c, ttl: ttl, log: logger}
}

// Cache returns the underlying cache.
func (h *Helper) Cache() Cache { return h.c }

// GetJSON decodes the cached value for key into dest and reports a hit.
func (h *Helper) GetJSON(ctx context.Context, key string, dest any) bool {
	if h == nil {
		return false
	}
	raw, ok, err := h.c.Get(ctx, key)
	if err != nil {
		h.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		h.log.Warn("cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON stores v under key with the helper's TTL.
func (h *Helper) SetJSON(ctx context.Context, key string, v any) {
	h.SetJSONUntil(ctx, key, v, time.Time{})
}

// SetJSONUntil stores v under key with the helper's TTL, shortened so the
// entry is gone by deadline. A zero deadline means no limit; a deadline
// already past stores nothing.
func (h *Helper) SetJSONUntil(ctx context.Context, key string, v any, deadline time.Time) {
	if h == nil || h.ttl <= 0 {
		return
	}
	ttl := h.ttl
	if !deadline.IsZero() {
		left := time.Until(deadline)
		if left <= 0 {
			return
		}
		if left < ttl {
			ttl = left
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		h.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := h.c.Set(ctx, key, raw, ttl); err != nil {
		h.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops the given namespaces.
func (h *Helper) Invalidate(ctx context.Context, namespaces ...string) {
	if h == nil {
		return
	}
	for _, ns := range namespaces {
		if err := h.c.Invalidate(ctx, ns); err != nil {
			h.log.Warn("cache invalidate failed", zap.String("namespace", ns), zap.Error(err))
		}
	}
}

// Nop is a Cache that never hits.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Invalidate(context.Context, string) error                 { return nil }
func (Nop) Ping(context.Context) error                               { return nil }
func (Nop) Close() error                                             { return nil }
