// internal/app/features/systemusers/handler.go
package systemusers

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the admin view of user accounts.
type Handler struct {
	Users *userstore.Store

	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Cache  *cache.Helper
}

func NewHandler(d shared.Deps) *Handler {
	d = d.WithDefaults()
	return &Handler{
		Users:  userstore.New(d.DB),
		Log:    d.Log,
		ErrLog: d.ErrLog,
		Audit:  d.Audit,
		Cache:  d.Cache,
	}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "user", "", err)
		return nil, false
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Store(w, r, "user", "systemusers: load", err)
		return nil, false
	}
	return u, true
}
