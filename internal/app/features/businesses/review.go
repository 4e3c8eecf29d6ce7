// internal/app/features/businesses/review.go
package businesses

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
)

// HandleReview handles PATCH /api/admin/businesses/{id}. Approval also
// marks the business verified.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "business", "", err)
		return
	}
	d, ok := shared.DecodeReview(w, r, h.ErrLog)
	if !ok {
		return
	}
	b, from, err := h.Businesses.Review(ctx, id, d)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "businesses: review", err)
		return
	}
	h.Audit.EntityReviewed(ctx, r, d.Actor, "business", id, from, b.Status, d.Notes)
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusOK, b)
}

// HandleDelete handles DELETE /api/admin/businesses/{id}. Products,
// offers, announcements and certifications go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	b, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.Businesses.Delete(ctx, b.ID, h.Log); err != nil {
		h.ErrLog.Store(w, r, "business", "businesses: delete", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityDeleted(ctx, r, uid, "business", b.ID, b.Name)
	h.invalidate(r, cache.NSOffers, cache.NSAnnouncements)
	httpx.NoContent(w)
}
