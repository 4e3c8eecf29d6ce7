// internal/app/features/mosques/delete.go
package mosques

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /api/mosques/{id} (admin). Imams linked to
// the mosque are unlinked.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.Mosques.Delete(ctx, m.ID); err != nil {
		h.ErrLog.Store(w, r, "mosque", "mosques: delete", err)
		return
	}
	if err := h.Users.ClearMosque(ctx, m.ID); err != nil {
		h.Log.Warn("mosques: unlink imam", zap.Error(err), zap.String("mosque_id", m.ID.Hex()))
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityDeleted(ctx, r, uid, "mosque", m.ID, m.Name)
	h.invalidate(r)
	httpx.NoContent(w)
}
