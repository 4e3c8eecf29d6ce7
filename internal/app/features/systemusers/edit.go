// internal/app/features/systemusers/edit.go
package systemusers

import (
	"context"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
)

type editInput struct {
	Role   *string `json:"role" validate:"omitempty,oneof=user imam business admin" label:"Role"`
	Status *string `json:"status" validate:"omitempty,oneof=active disabled" label:"Status"`
}

// HandleEdit handles PATCH /api/admin/users/{id}. Admins cannot demote or
// disable themselves, and the last active admin cannot be removed.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, ok := h.load(w, r)
	if !ok {
		return
	}
	var in editInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	if in.Role != nil {
		v := normalize.Role(*in.Role)
		in.Role = &v
	}
	if in.Status != nil {
		v := normalize.Status(*in.Status)
		in.Status = &v
	}
	if in.Role == nil && in.Status == nil {
		h.ErrLog.BadRequest(w, "nothing to update")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}

	losesAdmin := u.Role == models.RoleAdmin && u.Status == status.Active &&
		((in.Role != nil && *in.Role != models.RoleAdmin) || (in.Status != nil && *in.Status != status.Active))
	if losesAdmin {
		_, _, actor, _ := authz.UserCtx(r)
		if actor == u.ID {
			h.ErrLog.Conflict(w, "you cannot remove your own admin access")
			return
		}
		n, err := h.Users.CountActiveAdmins(ctx)
		if err != nil {
			h.ErrLog.Store(w, r, "user", "systemusers: count admins", err)
			return
		}
		if n <= 1 {
			h.ErrLog.Conflict(w, "cannot remove the last active admin")
			return
		}
	}

	updated, err := h.Users.UpdateAdmin(ctx, u.ID, userstore.AdminUpdate{Role: in.Role, Status: in.Status})
	if err != nil {
		h.ErrLog.Store(w, r, "user", "systemusers: update", err)
		return
	}

	var fields []string
	if in.Role != nil && *in.Role != u.Role {
		fields = append(fields, "role")
	}
	if in.Status != nil && *in.Status != u.Status {
		fields = append(fields, "status")
	}
	if len(fields) > 0 {
		_, _, actor, _ := authz.UserCtx(r)
		h.Audit.UserUpdated(ctx, r, actor, u.ID, strings.Join(fields, ","))
		h.Cache.Invalidate(ctx, cache.NSStats)
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}
