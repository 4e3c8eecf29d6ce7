// internal/app/features/shared/shared.go

// Package shared holds the pieces every JSON feature handler uses: the
// dependency bundle handed in by bootstrap, review request decoding, and
// cached page reads.
package shared

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/review"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Deps is what bootstrap hands every feature handler.
type Deps struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Cache  *cache.Helper
}

// WithDefaults fills nil members with no-op implementations.
func (d Deps) WithDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.ErrLog == nil {
		d.ErrLog = uierrors.NewErrorLogger(d.Log)
	}
	if d.Audit == nil {
		d.Audit = auditlog.NewNopLogger()
	}
	return d
}

// ReviewRequest is the body of every PATCH that moves a record through a
// review workflow.
type ReviewRequest struct {
	Status string `json:"status" validate:"required,max=20" label:"Status"`
	Notes  string `json:"notes" validate:"max=2000" label:"Notes"`
}

// DecodeReview reads a ReviewRequest and turns it into a Decision made by
// the caller. On failure it has already written the response.
func DecodeReview(w http.ResponseWriter, r *http.Request, el *uierrors.ErrorLogger) (review.Decision, bool) {
	var req ReviewRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		el.BadRequest(w, err.Error())
		return review.Decision{}, false
	}
	if res := inputval.Validate(req); res.HasErrors() {
		el.Validation(w, res)
		return review.Decision{}, false
	}
	_, _, actor, ok := authz.UserCtx(r)
	if !ok {
		el.Unauthorized(w)
		return review.Decision{}, false
	}
	return review.Decision{
		Status: normalize.Status(req.Status),
		Actor:  actor,
		Notes:  htmlsanitize.StripTags(req.Notes),
	}, true
}

// Cached serves a JSON value from the cache when present; otherwise it
// calls load, caches the result and writes it. Errors from load go through
// ErrorLogger.Store.
func Cached[T any](w http.ResponseWriter, r *http.Request, c *cache.Helper, el *uierrors.ErrorLogger, ns, what, op string, load func(context.Context) (T, error)) {
	CachedUntil(w, r, c, el, ns, what, op, load, nil)
}

// CachedUntil is Cached for values that go stale at a known time: until
// reports the earliest such time in v (zero when none), and the entry is
// kept no later than that.
func CachedUntil[T any](w http.ResponseWriter, r *http.Request, c *cache.Helper, el *uierrors.ErrorLogger, ns, what, op string, load func(context.Context) (T, error), until func(T) time.Time) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	key := cache.Key(ns, r.URL.Query())
	var hit T
	if c.GetJSON(ctx, key, &hit) {
		w.Header().Set("X-Cache", "hit")
		httpx.WriteJSON(w, http.StatusOK, hit)
		return
	}
	v, err := load(ctx)
	if err != nil {
		el.Store(w, r, what, op, err)
		return
	}
	var deadline time.Time
	if until != nil {
		deadline = until(v)
	}
	c.SetJSONUntil(ctx, key, v, deadline)
	httpx.WriteJSON(w, http.StatusOK, v)
}
