// internal/app/features/businesses/products.go
package businesses

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
)

func (h *Handler) decodeProduct(w http.ResponseWriter, r *http.Request) (productInput, bool) {
	var in productInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return in, false
	}
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return in, false
	}
	return in, true
}

// loadProduct resolves {pid} and checks the caller manages its business.
func (h *Handler) loadProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pid, err := httpx.ParseID(r, "pid")
	if err != nil {
		h.ErrLog.Store(w, r, "product", "", err)
		return nil, false
	}
	p, err := h.Products.GetByID(ctx, pid)
	if err != nil {
		h.ErrLog.Store(w, r, "product", "products: load", err)
		return nil, false
	}
	b, err := h.Businesses.GetByID(ctx, p.BusinessID)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "products: load business", err)
		return nil, false
	}
	if !authz.CanManage(r, b.OwnerID) {
		h.ErrLog.Forbidden(w, "only the business owner or an admin can change its products")
		return nil, false
	}
	return p, true
}

// HandleCreateProduct handles POST /api/business/{id}/products.
func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, ok := h.loadManaged(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	p := in.model()
	p.BusinessID = b.ID
	created, err := h.Products.Create(ctx, p)
	if err != nil {
		h.ErrLog.Store(w, r, "product", "products: create", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityCreated(ctx, r, uid, "product", created.ID, created.Name)
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// HandleEditProduct handles PUT /api/business/products/{pid}.
func (h *Handler) HandleEditProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	updated, err := h.Products.Update(ctx, p.ID, in.model())
	if err != nil {
		h.ErrLog.Store(w, r, "product", "products: update", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityUpdated(ctx, r, uid, "product", p.ID, "details")
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusOK, updated)
}

// HandleDeleteProduct handles DELETE /api/business/products/{pid}.
func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	if err := h.Products.Delete(ctx, p.ID); err != nil {
		h.ErrLog.Store(w, r, "product", "products: delete", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityDeleted(ctx, r, uid, "product", p.ID, p.Name)
	h.invalidate(r)
	httpx.NoContent(w)
}
