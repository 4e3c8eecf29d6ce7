// internal/app/features/businesses/handler.go
package businesses

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	businessstore "github.com/dalemusser/mosqueconnect/internal/app/store/businesses"
	offerstore "github.com/dalemusser/mosqueconnect/internal/app/store/offers"
	productstore "github.com/dalemusser/mosqueconnect/internal/app/store/products"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves business listings and their products.
type Handler struct {
	Businesses *businessstore.Store
	Products   *productstore.Store
	Offers     *offerstore.Store

	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Cache  *cache.Helper
}

func NewHandler(d shared.Deps) *Handler {
	d = d.WithDefaults()
	return &Handler{
		Businesses: businessstore.New(d.DB),
		Products:   productstore.New(d.DB),
		Offers:     offerstore.New(d.DB),
		Log:        d.Log,
		ErrLog:     d.ErrLog,
		Audit:      d.Audit,
		Cache:      d.Cache,
	}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*models.Business, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "business", "", err)
		return nil, false
	}
	b, err := h.Businesses.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "businesses: load", err)
		return nil, false
	}
	return b, true
}

// loadVisible is load for public routes: unapproved businesses are hidden
// from everyone but their owner and admins.
func (h *Handler) loadVisible(w http.ResponseWriter, r *http.Request) (*models.Business, bool) {
	b, ok := h.load(w, r)
	if !ok {
		return nil, false
	}
	if b.Status != status.Approved && !authz.CanManage(r, b.OwnerID) {
		h.ErrLog.NotFound(w, "business")
		return nil, false
	}
	return b, true
}

// loadManaged is load for owner routes: the caller must own the business
// or be an admin.
func (h *Handler) loadManaged(w http.ResponseWriter, r *http.Request) (*models.Business, bool) {
	b, ok := h.load(w, r)
	if !ok {
		return nil, false
	}
	if !authz.CanManage(r, b.OwnerID) {
		h.ErrLog.Forbidden(w, "only the business owner or an admin can do this")
		return nil, false
	}
	return b, true
}

func (h *Handler) invalidate(r *http.Request, extra ...string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	h.Cache.Invalidate(ctx, append([]string{cache.NSBusinesses, cache.NSStats}, extra...)...)
}
