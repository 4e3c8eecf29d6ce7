// internal/app/features/businesses/routes.go
package businesses

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/businesses (public directory).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeView)
	r.Get("/{id}/products", h.ServeProducts)
	r.Get("/{id}/offers", h.ServeOffers)
	return r
}

// OwnerRoutes is mounted at /api/business.
func OwnerRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.With(auth.RequireRole(models.RoleBusiness)).Post("/", h.HandleCreate)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleBusiness, models.RoleAdmin))
		pr.Get("/mine", h.ServeMine)
		pr.Put("/{id}", h.HandleEdit)
		pr.Post("/{id}/products", h.HandleCreateProduct)
		pr.Put("/products/{pid}", h.HandleEditProduct)
		pr.Delete("/products/{pid}", h.HandleDeleteProduct)
	})

	return r
}

// AdminRoutes is mounted at /api/admin/businesses.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin))
	r.Get("/", h.ServeAdminList)
	r.Patch("/{id}", h.HandleReview)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
