// internal/app/features/businesses/list.go
package businesses

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	businessstore "github.com/dalemusser/mosqueconnect/internal/app/store/businesses"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

func filterFrom(r *http.Request) businessstore.ListFilter {
	return businessstore.ListFilter{
		Category: normalize.Filter(query.Get(r, "category")),
		City:     normalize.QueryParam(query.Get(r, "city")),
		Search:   normalize.QueryParam(query.Get(r, "search")),
	}
}

// ServeList handles GET /api/businesses: approved businesses only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)
	f.Status = status.Approved
	p := paging.Parse(r, businessstore.Sorts)

	shared.Cached(w, r, h.Cache, h.ErrLog, cache.NSBusinesses, "business", "businesses: list",
		func(ctx context.Context) (paging.Page[models.Business], error) {
			items, total, err := h.Businesses.List(ctx, f, p)
			if err != nil {
				return paging.Page[models.Business]{}, err
			}
			return paging.NewPage(items, p, total), nil
		})
}

// ServeMine handles GET /api/business/mine: the caller's businesses in
// any status.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	f := filterFrom(r)
	f.Status = normalize.Filter(query.Get(r, "status"))
	f.OwnerID = &uid
	h.list(w, r, f)
}

// ServeAdminList handles GET /api/admin/businesses.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)
	f.Status = normalize.Filter(query.Get(r, "status"))
	h.list(w, r, f)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, f businessstore.ListFilter) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.Parse(r, businessstore.Sorts)
	items, total, err := h.Businesses.List(ctx, f, p)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "businesses: list", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}
