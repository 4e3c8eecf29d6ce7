// internal/app/features/businesses/edit.go
package businesses

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
)

// HandleEdit handles PUT /api/business/{id}. Status and verification are
// left alone.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, ok := h.loadManaged(w, r)
	if !ok {
		return
	}
	var in businessInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}

	updated, err := h.Businesses.Update(ctx, b.ID, in.model())
	if err != nil {
		h.ErrLog.Store(w, r, "business", "businesses: update", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityUpdated(ctx, r, uid, "business", b.ID, "profile")
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusOK, updated)
}
