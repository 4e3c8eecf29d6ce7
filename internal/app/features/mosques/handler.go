// internal/app/features/mosques/handler.go
package mosques

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	mosquestore "github.com/dalemusser/mosqueconnect/internal/app/store/mosques"
	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for mosques.
type Handler struct {
	Mosques *mosquestore.Store
	Users   *userstore.Store

	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Cache  *cache.Helper
}

// NewHandler constructs a mosques Handler.
func NewHandler(d shared.Deps) *Handler {
	d = d.WithDefaults()
	return &Handler{
		Mosques: mosquestore.New(d.DB),
		Users:   userstore.New(d.DB),
		Log:     d.Log,
		ErrLog:  d.ErrLog,
		Audit:   d.Audit,
		Cache:   d.Cache,
	}
}

// load parses {id} and fetches the mosque, writing the error response when
// it cannot.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*models.Mosque, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "", err)
		return nil, false
	}
	m, err := h.Mosques.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "mosques: load", err)
		return nil, false
	}
	return m, true
}

func (h *Handler) invalidate(r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	h.Cache.Invalidate(ctx, cache.NSMosques, cache.NSStats)
}
