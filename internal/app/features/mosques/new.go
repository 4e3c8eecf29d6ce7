// internal/app/features/mosques/new.go
package mosques

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /api/mosques. The caller becomes the imam and
// the mosque starts pending review.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
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

	m := in.model()
	m.ImamID = uid
	created, err := h.Mosques.Create(ctx, m)
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "mosques: create", err)
		return
	}
	if role == models.RoleImam {
		if err := h.Users.SetMosque(ctx, uid, created.ID); err != nil {
			h.Log.Warn("mosques: link imam", zap.Error(err), zap.String("mosque_id", created.ID.Hex()))
		}
	}

	h.Audit.EntityCreated(ctx, r, uid, "mosque", created.ID, created.Name)
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusCreated, created)
}
