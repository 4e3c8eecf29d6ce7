// internal/app/features/announcements/handler.go
package announcements

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	announcementstore "github.com/dalemusser/mosqueconnect/internal/app/store/announcements"
	businessstore "github.com/dalemusser/mosqueconnect/internal/app/store/businesses"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves community announcements: platform-wide notices from
// admins and business announcements that wait for review.
type Handler struct {
	Announcements *announcementstore.Store
	Businesses    *businessstore.Store
	Now           func() time.Time

	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Cache  *cache.Helper
}

func NewHandler(d shared.Deps) *Handler {
	d = d.WithDefaults()
	return &Handler{
		Announcements: announcementstore.New(d.DB),
		Businesses:    businessstore.New(d.DB),
		Now:           time.Now,
		Log:           d.Log,
		ErrLog:        d.ErrLog,
		Audit:         d.Audit,
		Cache:         d.Cache,
	}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*models.Announcement, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "announcement", "", err)
		return nil, false
	}
	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Store(w, r, "announcement", "announcements: load", err)
		return nil, false
	}
	return a, true
}

func (h *Handler) invalidate(r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	h.Cache.Invalidate(ctx, cache.NSAnnouncements, cache.NSStats)
}
