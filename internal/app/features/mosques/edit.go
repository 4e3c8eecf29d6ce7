// internal/app/features/mosques/edit.go
package mosques

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
)

// HandleEdit handles PUT /api/mosques/{id}. Editing never changes status.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, ok := h.load(w, r)
	if !ok {
		return
	}
	if !authz.CanManage(r, m.ImamID) {
		h.ErrLog.Forbidden(w, "only the mosque's imam or an admin can edit it")
		return
	}
	var in mosqueInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}

	updated, err := h.Mosques.Update(ctx, m.ID, in.model())
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "mosques: update", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityUpdated(ctx, r, uid, "mosque", m.ID, "profile")
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusOK, updated)
}

// HandlePrayerTimes handles PUT /api/mosques/{id}/prayer-times.
func (h *Handler) HandlePrayerTimes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, ok := h.load(w, r)
	if !ok {
		return
	}
	if !authz.CanManage(r, m.ImamID) {
		h.ErrLog.Forbidden(w, "only the mosque's imam or an admin can edit prayer times")
		return
	}
	var pt models.PrayerTimes
	if err := httpx.DecodeJSON(w, r, &pt); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(pt); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}

	updated, err := h.Mosques.SetPrayerTimes(ctx, m.ID, pt)
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "mosques: prayer times", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityUpdated(ctx, r, uid, "mosque", m.ID, "prayer_times")
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusOK, updated)
}
