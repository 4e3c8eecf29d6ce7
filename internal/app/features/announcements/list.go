// internal/app/features/announcements/list.go
package announcements

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	announcementstore "github.com/dalemusser/mosqueconnect/internal/app/store/announcements"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /api/announcements: approved announcements that
// have not expired.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	bizID, err := httpx.ParseOptionalHex(query.Get(r, "business_id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid business id")
		return
	}
	now := h.Now().UTC()
	f := announcementstore.ListFilter{
		Status:     status.Approved,
		Type:       normalize.Filter(query.Get(r, "type")),
		BusinessID: bizID,
		Search:     normalize.QueryParam(query.Get(r, "search")),
		LiveAt:     &now,
	}
	p := paging.Parse(r, announcementstore.Sorts)

	shared.CachedUntil(w, r, h.Cache, h.ErrLog, cache.NSAnnouncements, "announcement", "announcements: list",
		func(ctx context.Context) (paging.Page[models.Announcement], error) {
			items, total, err := h.Announcements.List(ctx, f, p)
			if err != nil {
				return paging.Page[models.Announcement]{}, err
			}
			return paging.NewPage(items, p, total), nil
		}, firstExpiry)
}

// firstExpiry is the earliest expires_at on the page, or zero.
func firstExpiry(pg paging.Page[models.Announcement]) time.Time {
	var first time.Time
	for _, a := range pg.Items {
		if a.ExpiresAt != nil && (first.IsZero() || a.ExpiresAt.Before(first)) {
			first = *a.ExpiresAt
		}
	}
	return first
}

// ServeView handles GET /api/announcements/{id}. Only approved, unexpired
// announcements are public.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}
	if a.Status != status.Approved || (a.ExpiresAt != nil && !a.ExpiresAt.After(h.Now())) {
		h.ErrLog.NotFound(w, "announcement")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

// ServeAdminList handles GET /api/admin/announcements, any status.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	bizID, err := httpx.ParseOptionalHex(query.Get(r, "business_id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid business id")
		return
	}
	f := announcementstore.ListFilter{
		Status:     normalize.Filter(query.Get(r, "status")),
		Type:       normalize.Filter(query.Get(r, "type")),
		BusinessID: bizID,
		Search:     normalize.QueryParam(query.Get(r, "search")),
	}
	p := paging.Parse(r, announcementstore.Sorts)
	items, total, err := h.Announcements.List(ctx, f, p)
	if err != nil {
		h.ErrLog.Store(w, r, "announcement", "announcements: admin list", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}
