// internal/app/features/volunteers/review.go
package volunteers

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	volunteerstore "github.com/dalemusser/mosqueconnect/internal/app/store/volunteers"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeMosqueApplications handles GET /api/imam/applications and
// GET /api/admin/volunteers/applications.
func (h *Handler) ServeMosqueApplications(w http.ResponseWriter, r *http.Request) {
	mosqueID, ok := h.scopeMosque(w, r)
	if !ok {
		return
	}
	h.listApplications(w, r, volunteerstore.ApplicationFilter{
		MosqueID: mosqueID,
		Status:   normalize.Filter(query.Get(r, "status")),
	})
}

// HandleReviewApplication handles PATCH /api/imam/applications/{id} and
// PATCH /api/admin/volunteers/applications/{id}. The mosque's imam or an
// admin decides.
func (h *Handler) HandleReviewApplication(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "application", "", err)
		return
	}
	a, err := h.Volunteers.GetApplication(ctx, id)
	if err != nil {
		h.ErrLog.Store(w, r, "application", "volunteers: load application", err)
		return
	}
	if !h.canManageMosque(w, r, a.MosqueID) {
		return
	}
	d, ok := shared.DecodeReview(w, r, h.ErrLog)
	if !ok {
		return
	}
	out, from, err := h.Volunteers.ReviewApplication(ctx, id, d)
	if err != nil {
		h.ErrLog.Store(w, r, "application", "volunteers: review application", err)
		return
	}
	h.Audit.EntityReviewed(ctx, r, d.Actor, "volunteer_application", id, from, out.Status, d.Notes)
	h.Cache.Invalidate(ctx, cache.NSStats)
	httpx.WriteJSON(w, http.StatusOK, out)
}

// ServeAllOffers handles GET /api/admin/volunteers/offers.
func (h *Handler) ServeAllOffers(w http.ResponseWriter, r *http.Request) {
	h.listOffers(w, r, volunteerstore.OfferFilter{
		Status: normalize.Filter(query.Get(r, "status")),
		Skill:  normalize.Category(query.Get(r, "skill")),
		Search: normalize.QueryParam(query.Get(r, "search")),
	})
}

// HandleReviewOffer handles PATCH /api/admin/volunteers/offers/{id}.
func (h *Handler) HandleReviewOffer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "volunteer offer", "", err)
		return
	}
	d, ok := shared.DecodeReview(w, r, h.ErrLog)
	if !ok {
		return
	}
	out, from, err := h.Volunteers.ReviewOffer(ctx, id, d)
	if err != nil {
		h.ErrLog.Store(w, r, "volunteer offer", "volunteers: review offer", err)
		return
	}
	h.Audit.EntityReviewed(ctx, r, d.Actor, "volunteer_offer", id, from, out.Status, d.Notes)
	h.Cache.Invalidate(ctx, cache.NSStats)
	httpx.WriteJSON(w, http.StatusOK, out)
}
