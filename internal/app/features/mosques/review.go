// internal/app/features/mosques/review.go
package mosques

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
)

// HandleReview handles PATCH /api/admin/mosques/{id}.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "", err)
		return
	}
	d, ok := shared.DecodeReview(w, r, h.ErrLog)
	if !ok {
		return
	}
	m, from, err := h.Mosques.Review(ctx, id, d)
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "mosques: review", err)
		return
	}
	h.Audit.EntityReviewed(ctx, r, d.Actor, "mosque", id, from, m.Status, d.Notes)
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusOK, m)
}
