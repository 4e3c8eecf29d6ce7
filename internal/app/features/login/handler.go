// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/ratelimit"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// errBadCredentials is the single message for unknown email and wrong
// password so the response does not reveal which accounts exist.
const errBadCredentials = "invalid email or password"

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	limiter *ratelimit.LoginLimiter,
	audit *auditlog.Logger,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if limiter == nil {
		limiter = ratelimit.NewLoginLimiter(10)
	}
	return &Handler{
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		AuditLog:   audit,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type loginResponse struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// HandleLogin handles POST /api/auth/login.
//
// On success it sets the session cookie and returns a bearer token, so
// browser and API clients use the same endpoint.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	req.Email = normalize.Email(req.Email)
	if res := inputval.Validate(req); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	if ok, reason := h.Limiter.Check(r, req.Email); !ok {
		h.AuditLog.LoginFailedRateLimit(ctx, r, req.Email)
		ratelimit.TooMany(w, reason)
		return
	}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, req.Email)
		uierrors.Write(w, http.StatusUnauthorized, errBadCredentials)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: load user", err)
		return
	}
	if !userstore.CheckPassword(u, req.Password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID)
		uierrors.Write(w, http.StatusUnauthorized, errBadCredentials)
		return
	}
	if u.Status != status.Active {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID)
		h.ErrLog.Forbidden(w, "this account has been disabled")
		return
	}

	su := auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email, Role: u.Role}
	if u.MosqueID != nil {
		su.MosqueID = u.MosqueID.Hex()
	}
	token, exp, err := h.SessionMgr.IssueToken(su)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: issue token", err)
		return
	}
	if err := h.SessionMgr.SignIn(w, r, su.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "login: save session", err)
		return
	}

	h.Limiter.ResetEmail(req.Email)
	if err := h.Users.TouchLastLogin(ctx, u.ID); err != nil {
		h.Log.Warn("login: touch last_login_at", zap.Error(err), zap.String("user_id", su.ID))
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, "password")

	httpx.WriteJSON(w, http.StatusOK, loginResponse{User: *u, Token: token, ExpiresAt: exp})
}
