// internal/app/features/businesses/new.go
package businesses

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
)

// HandleCreate handles POST /api/business. The listing starts pending and
// unverified.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)
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

	b := in.model()
	b.OwnerID = uid
	created, err := h.Businesses.Create(ctx, b)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "businesses: create", err)
		return
	}
	h.Audit.EntityCreated(ctx, r, uid, "business", created.ID, created.Name)
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusCreated, created)
}
