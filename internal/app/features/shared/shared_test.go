package shared_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"go.uber.org/zap"
)

func TestDecodeReview(t *testing.T) {
	deps := shared.Deps{}.WithDefaults()

	tests := []struct {
		name   string
		body   any
		user   bool
		status int
	}{
		{"ok", map[string]string{"status": " Approved ", "notes": "<b>fine</b>"}, true, 0},
		{"missing status", map[string]string{"notes": "x"}, true, http.StatusBadRequest},
		{"unknown field", map[string]string{"status": "approved", "verdict": "yes"}, true, http.StatusBadRequest},
		{"anonymous", map[string]string{"status": "approved"}, false, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, http.MethodPatch, "/x", tt.body)
			admin := testutil.AdminUser()
			if tt.user {
				req = testutil.WithUser(req, admin)
			}
			rec := testutil.NewRecorder()
			d, ok := shared.DecodeReview(rec, req, deps.ErrLog)
			if tt.status != 0 {
				if ok {
					t.Fatal("expected failure")
				}
				rec.AssertStatus(t, tt.status)
				return
			}
			if !ok {
				t.Fatalf("unexpected failure: %s", rec.Body.String())
			}
			if d.Status != "approved" || d.Notes != "fine" || d.Actor != admin.OID() {
				t.Errorf("decision = %+v", d)
			}
		})
	}
}

func TestCached(t *testing.T) {
	mem := cache.NewMemory()
	deps := shared.Deps{Cache: cache.NewHelper(mem, time.Minute, zap.NewNop())}.WithDefaults()

	calls := 0
	load := func(context.Context) (map[string]int, error) {
		calls++
		return map[string]int{"n": calls}, nil
	}

	for i := 0; i < 2; i++ {
		rec := testutil.NewRecorder()
		req := testutil.JSONRequest(t, http.MethodGet, "/api/mosques?page=1", nil)
		shared.Cached(rec, req, deps.Cache, deps.ErrLog, cache.NSMosques, "mosque", "list", load)
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, `"n":1`)
		if i == 1 && rec.Header().Get("X-Cache") != "hit" {
			t.Error("second read should hit the cache")
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times", calls)
	}

	rec := testutil.NewRecorder()
	req := testutil.JSONRequest(t, http.MethodGet, "/api/mosques?page=2", nil)
	shared.Cached(rec, req, deps.Cache, deps.ErrLog, cache.NSMosques, "mosque", "list", func(context.Context) (int, error) {
		return 0, errors.New("db down")
	})
	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestCachedUntil_PastDeadlineSkipsCache(t *testing.T) {
	mem := cache.NewMemory()
	deps := shared.Deps{Cache: cache.NewHelper(mem, time.Minute, zap.NewNop())}.WithDefaults()

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}
	gone := func(int) time.Time { return time.Now().Add(-time.Second) }

	for i := 0; i < 2; i++ {
		rec := testutil.NewRecorder()
		req := testutil.JSONRequest(t, http.MethodGet, "/api/announcements", nil)
		shared.CachedUntil(rec, req, deps.Cache, deps.ErrLog, cache.NSAnnouncements, "announcement", "list", load, gone)
		rec.AssertStatus(t, http.StatusOK)
		if rec.Header().Get("X-Cache") == "hit" {
			t.Error("entry past its deadline was cached")
		}
	}
	if calls != 2 {
		t.Errorf("load called %d times, want 2", calls)
	}
	if mem.Len() != 0 {
		t.Errorf("cache holds %d entries", mem.Len())
	}
}
