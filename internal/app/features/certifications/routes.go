// internal/app/features/certifications/routes.go
package certifications

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// OwnerRoutes is mounted at /api/business/certifications.
func OwnerRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleBusiness, models.RoleAdmin))
	r.Get("/", h.ServeMine)
	r.Post("/", h.HandleApply)
	return r
}

// AdminRoutes is mounted at /api/admin/certifications.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin))
	r.Get("/", h.ServeAdminList)
	r.Patch("/{id}", h.HandleReview)
	return r
}
