package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/mosqueconnect/internal/app/features/health"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"go.uber.org/zap"
)

type downCache struct{ cache.Nop }

func (downCache) Ping(context.Context) error { return errors.New("connection refused") }

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Message  string `json:"message"`
}

func serve(t *testing.T, c cache.Cache) (*testutil.ResponseRecorder, healthBody) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := health.NewHandler(db.Client(), c, zap.NewNop())

	rec := testutil.NewRecorder()
	h.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthBody
	rec.Decode(t, &body)
	return rec, body
}

func TestServe_DatabaseConnected(t *testing.T) {
	rec, body := serve(t, nil)
	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" && ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body.Status != "ok" || body.Database != "connected" || body.Cache != "" {
		t.Errorf("body = %+v", body)
	}
}

func TestServe_WithCache(t *testing.T) {
	rec, body := serve(t, cache.NewMemory())
	rec.AssertStatus(t, http.StatusOK)
	if body.Cache != "connected" {
		t.Errorf("cache = %q, want connected", body.Cache)
	}
}

func TestServe_CacheDown(t *testing.T) {
	rec, body := serve(t, downCache{})
	rec.AssertStatus(t, http.StatusServiceUnavailable)
	if body.Status != "error" || body.Cache != "disconnected" || body.Message != "Cache unavailable" {
		t.Errorf("body = %+v", body)
	}
	if body.Database != "connected" {
		t.Errorf("database = %q", body.Database)
	}
}
