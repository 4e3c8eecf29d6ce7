// internal/app/features/offers/public.go
package offers

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	offerstore "github.com/dalemusser/mosqueconnect/internal/app/store/offers"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /api/offers: active offers across all businesses.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f := offerstore.ListFilter{
		Status: status.Active,
		Search: normalize.QueryParam(query.Get(r, "search")),
	}
	p := paging.Parse(r, offerstore.Sorts)

	shared.Cached(w, r, h.Cache, h.ErrLog, cache.NSOffers, "offer", "offers: list",
		func(ctx context.Context) (paging.Page[models.Offer], error) {
			items, total, err := h.Offers.List(ctx, f, p)
			if err != nil {
				return paging.Page[models.Offer]{}, err
			}
			return paging.NewPage(items, p, total), nil
		})
}

// ServeView handles GET /api/offers/{id}. Offers that are not active are
// visible to their business only.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(w, r)
	if !ok {
		return
	}
	if o.Status != status.Active {
		mine, err := h.owns(r, o)
		if err != nil {
			h.ErrLog.Store(w, r, "offer", "offers: view owner", err)
			return
		}
		if !mine {
			h.ErrLog.NotFound(w, "offer")
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

// HandleRedeem handles POST /api/offers/{id}/redeem. It records one use and
// returns the discount for the purchase amount. A purchase under the
// minimum is refused without consuming a use.
func (h *Handler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	o, ok := h.load(w, r)
	if !ok {
		return
	}
	var req redeemRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}
	if req.Amount < o.MinPurchase {
		h.ErrLog.Field(w, "amount", "amount is below the offer's minimum purchase")
		return
	}

	redeemed, err := h.Offers.Redeem(ctx, o.ID)
	if err != nil {
		h.ErrLog.Store(w, r, "offer", "offers: redeem", err)
		return
	}

	// Price against the state the redemption was granted in.
	before := *redeemed
	before.UsedCount--
	now := h.Now()
	discount := before.CalculateDiscount(req.Amount, now)

	h.Audit.OfferRedeemed(ctx, r, uid, o.ID, req.Amount, discount)
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusOK, redeemResponse{
		OfferID:       o.ID,
		Amount:        req.Amount,
		Discount:      discount,
		FinalAmount:   before.DiscountedPrice(req.Amount, now),
		UsedCount:     redeemed.UsedCount,
		RemainingUses: redeemed.RemainingUses(),
	})
}
