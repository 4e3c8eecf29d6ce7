// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// Handler serves the signed-in caller's account.
type Handler struct {
	Users  *userstore.Store
	ErrLog *uierrors.ErrorLogger
}

// NewHandler creates a new userinfo handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger) *Handler {
	return &Handler{Users: userstore.New(db), ErrLog: errLog}
}

// ServeMe handles GET /api/auth/me and returns the stored user record.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.ErrLog.Log, "load current user")
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.Store(w, r, "user", "me: load user", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}
