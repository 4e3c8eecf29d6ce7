// internal/app/features/certifications/review.go
package certifications

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	certificationstore "github.com/dalemusser/mosqueconnect/internal/app/store/certifications"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeAdminList handles GET /api/admin/certifications.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	f := certificationstore.ListFilter{Status: normalize.Filter(query.Get(r, "status"))}
	bizID, err := httpx.ParseOptionalHex(query.Get(r, "business_id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid business id")
		return
	}
	if bizID != nil {
		f.BusinessIDs = []primitive.ObjectID{*bizID}
	}
	h.list(w, r, f)
}

// HandleReview handles PATCH /api/admin/certifications/{id}. Approval
// issues a certificate number and marks the business certified.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "certification", "", err)
		return
	}
	d, ok := shared.DecodeReview(w, r, h.ErrLog)
	if !ok {
		return
	}
	c, from, err := h.Certifications.Review(ctx, id, d)
	if err != nil {
		h.ErrLog.Store(w, r, "certification", "certifications: review", err)
		return
	}
	h.Audit.EntityReviewed(ctx, r, d.Actor, "certification", id, from, c.Status, d.Notes)
	ns := []string{cache.NSStats}
	if c.Status == status.Approved {
		ns = append(ns, cache.NSBusinesses)
	}
	h.Cache.Invalidate(ctx, ns...)
	httpx.WriteJSON(w, http.StatusOK, c)
}
