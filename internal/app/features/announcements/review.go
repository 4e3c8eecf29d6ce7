// internal/app/features/announcements/review.go
package announcements

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
)

// HandleReview handles PATCH /api/admin/announcements/{id}.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "announcement", "", err)
		return
	}
	d, ok := shared.DecodeReview(w, r, h.ErrLog)
	if !ok {
		return
	}
	a, from, err := h.Announcements.Review(ctx, id, d)
	if err != nil {
		h.ErrLog.Store(w, r, "announcement", "announcements: review", err)
		return
	}
	h.Audit.EntityReviewed(ctx, r, d.Actor, "announcement", id, from, a.Status, d.Notes)
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusOK, a)
}

// HandleDelete handles DELETE /api/admin/announcements/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.Announcements.Delete(ctx, a.ID); err != nil {
		h.ErrLog.Store(w, r, "announcement", "announcements: delete", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityDeleted(ctx, r, uid, "announcement", a.ID, a.Title)
	h.invalidate(r)
	httpx.NoContent(w)
}
