// internal/app/features/mosques/list.go
package mosques

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	mosquestore "github.com/dalemusser/mosqueconnect/internal/app/store/mosques"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

func filterFrom(r *http.Request) mosquestore.ListFilter {
	return mosquestore.ListFilter{
		City:     normalize.QueryParam(query.Get(r, "city")),
		Facility: normalize.Filter(query.Get(r, "facility")),
		Search:   normalize.QueryParam(query.Get(r, "search")),
	}
}

// ServeList handles GET /api/mosques: approved mosques only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)
	f.Status = status.Approved
	p := paging.Parse(r, mosquestore.Sorts)

	shared.Cached(w, r, h.Cache, h.ErrLog, cache.NSMosques, "mosque", "mosques: list",
		func(ctx context.Context) (paging.Page[models.Mosque], error) {
			items, total, err := h.Mosques.List(ctx, f, p)
			if err != nil {
				return paging.Page[models.Mosque]{}, err
			}
			return paging.NewPage(items, p, total), nil
		})
}

// ServeAdminList handles GET /api/admin/mosques: any status, ?status
// narrows.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := filterFrom(r)
	f.Status = normalize.Filter(query.Get(r, "status"))
	p := paging.Parse(r, mosquestore.Sorts)

	items, total, err := h.Mosques.List(ctx, f, p)
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "mosques: admin list", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}
