// internal/app/features/businesses/view.go
package businesses

import (
	"context"
	"net/http"

	offerstore "github.com/dalemusser/mosqueconnect/internal/app/store/offers"
	productstore "github.com/dalemusser/mosqueconnect/internal/app/store/products"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeView handles GET /api/businesses/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

// ServeProducts handles GET /api/businesses/{id}/products. Inactive
// products are listed for the owner only.
func (h *Handler) ServeProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	b, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	f := productstore.ListFilter{
		BusinessID: b.ID,
		Category:   normalize.Filter(query.Get(r, "category")),
		Search:     normalize.QueryParam(query.Get(r, "search")),
		Status:     status.Active,
	}
	if authz.CanManage(r, b.OwnerID) {
		f.Status = normalize.Filter(query.Get(r, "status"))
	}
	p := paging.Parse(r, productstore.Sorts)
	items, total, err := h.Products.List(ctx, f, p)
	if err != nil {
		h.ErrLog.Store(w, r, "product", "businesses: list products", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}

// ServeOffers handles GET /api/businesses/{id}/offers. Non-owners see
// active offers only.
func (h *Handler) ServeOffers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	b, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	f := offerstore.ListFilter{
		BusinessIDs: []primitive.ObjectID{b.ID},
		Status:      status.Active,
		Search:      normalize.QueryParam(query.Get(r, "search")),
	}
	if authz.CanManage(r, b.OwnerID) {
		f.Status = normalize.Filter(query.Get(r, "status"))
	}
	p := paging.Parse(r, offerstore.Sorts)
	items, total, err := h.Offers.List(ctx, f, p)
	if err != nil {
		h.ErrLog.Store(w, r, "offer", "businesses: list offers", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}
