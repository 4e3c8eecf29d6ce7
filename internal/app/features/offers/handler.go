// internal/app/features/offers/handler.go
package offers

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	businessstore "github.com/dalemusser/mosqueconnect/internal/app/store/businesses"
	offerstore "github.com/dalemusser/mosqueconnect/internal/app/store/offers"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves business offers: owner management, the public list and
// redemption.
type Handler struct {
	Offers     *offerstore.Store
	Businesses *businessstore.Store
	Now        func() time.Time

	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Cache  *cache.Helper
}

func NewHandler(d shared.Deps) *Handler {
	d = d.WithDefaults()
	return &Handler{
		Offers:     offerstore.New(d.DB),
		Businesses: businessstore.New(d.DB),
		Now:        func() time.Time { return time.Now().UTC() },
		Log:        d.Log,
		ErrLog:     d.ErrLog,
		Audit:      d.Audit,
		Cache:      d.Cache,
	}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*models.Offer, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "offer", "", err)
		return nil, false
	}
	o, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Store(w, r, "offer", "offers: load", err)
		return nil, false
	}
	return o, true
}

// owns reports whether the caller manages the offer's business.
func (h *Handler) owns(r *http.Request, o *models.Offer) (bool, error) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if authz.IsAdmin(r) {
		return true, nil
	}
	b, err := h.Businesses.GetByID(ctx, o.BusinessID)
	if err != nil {
		return false, err
	}
	return authz.CanManage(r, b.OwnerID), nil
}

// loadManaged loads {id} and requires the caller to manage it.
func (h *Handler) loadManaged(w http.ResponseWriter, r *http.Request) (*models.Offer, bool) {
	o, ok := h.load(w, r)
	if !ok {
		return nil, false
	}
	mine, err := h.owns(r, o)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "offers: load business", err)
		return nil, false
	}
	if !mine {
		h.ErrLog.Forbidden(w, "only the business owner or an admin can manage this offer")
		return nil, false
	}
	return o, true
}

func (h *Handler) invalidate(r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	h.Cache.Invalidate(ctx, cache.NSOffers, cache.NSStats)
}
