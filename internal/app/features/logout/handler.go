// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// ServeLogout handles POST /api/auth/logout. It always expires the session
// cookie and answers 204, signed in or not. Bearer tokens are stateless and
// simply expire.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.Logout(r.Context(), r, uid)
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	httpx.NoContent(w)
}
