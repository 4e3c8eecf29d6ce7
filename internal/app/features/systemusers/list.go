// internal/app/features/systemusers/list.go
package systemusers

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /api/admin/users with role, status and search
// filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := userstore.ListFilter{
		Role:   normalize.Filter(query.Get(r, "role")),
		Status: normalize.Filter(query.Get(r, "status")),
		Search: normalize.QueryParam(query.Get(r, "search")),
	}
	p := paging.Parse(r, userstore.Sorts)
	items, total, err := h.Users.List(ctx, f, p)
	if err != nil {
		h.ErrLog.Store(w, r, "user", "systemusers: list", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}

// ServeView handles GET /api/admin/users/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	u, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}
