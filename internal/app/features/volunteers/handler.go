// internal/app/features/volunteers/handler.go
package volunteers

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	mosquestore "github.com/dalemusser/mosqueconnect/internal/app/store/mosques"
	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	volunteerstore "github.com/dalemusser/mosqueconnect/internal/app/store/volunteers"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves volunteer profiles, applications, offers of help and the
// needs mosques post.
type Handler struct {
	Volunteers *volunteerstore.Store
	Mosques    *mosquestore.Store
	Users      *userstore.Store

	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Cache  *cache.Helper
}

func NewHandler(d shared.Deps) *Handler {
	d = d.WithDefaults()
	return &Handler{
		Volunteers: volunteerstore.New(d.DB),
		Mosques:    mosquestore.New(d.DB),
		Users:      userstore.New(d.DB),
		Log:        d.Log,
		ErrLog:     d.ErrLog,
		Audit:      d.Audit,
		Cache:      d.Cache,
	}
}

// imamMosque returns the mosque the calling imam leads. The session value
// is used when present; otherwise the newest mosque naming the caller as
// imam. mongo.ErrNoDocuments means the imam has none.
func (h *Handler) imamMosque(r *http.Request) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if id := authz.UserMosqueID(r); !id.IsZero() {
		return id, nil
	}
	_, _, uid, _ := authz.UserCtx(r)
	m, err := h.Mosques.GetByImam(ctx, uid)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return m.ID, nil
}

// canManageMosque reports whether the caller is the imam of mosqueID or an
// admin.
func (h *Handler) canManageMosque(w http.ResponseWriter, r *http.Request, mosqueID primitive.ObjectID) bool {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if authz.IsAdmin(r) {
		return true
	}
	m, err := h.Mosques.GetByID(ctx, mosqueID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Forbidden(w, "")
		return false
	}
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "volunteers: load mosque", err)
		return false
	}
	if !authz.CanManage(r, m.ImamID) {
		h.ErrLog.Forbidden(w, "only the mosque's imam or an admin can do this")
		return false
	}
	return true
}
