// internal/app/features/login/register.go
package login

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
)

type registerRequest struct {
	FullName string `json:"full_name" validate:"required,max=200" label:"Full name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,min=8,max=128" label:"Password"`
	Phone    string `json:"phone" validate:"max=40" label:"Phone"`
	Role     string `json:"role" validate:"omitempty,oneof=user imam business" label:"Role"`
}

// HandleRegister handles POST /api/auth/register. Admin accounts cannot be
// created here.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	req.Email = normalize.Email(req.Email)
	req.FullName = normalize.Name(req.FullName)
	req.Role = normalize.Role(req.Role)
	if res := inputval.Validate(req); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	}, req.Password)
	if err != nil {
		h.ErrLog.Store(w, r, "user", "register: create user", err)
		return
	}

	h.AuditLog.UserRegistered(ctx, r, u.ID, u.Role)
	httpx.WriteJSON(w, http.StatusCreated, u)
}
