// internal/app/features/mosques/routes.go
package mosques

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/mosques.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeView)

	// Imams and admins; ownership is checked per record.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleImam, models.RoleAdmin))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Put("/{id}/prayer-times", h.HandlePrayerTimes)
	})

	r.With(auth.RequireRole(models.RoleAdmin)).Delete("/{id}", h.HandleDelete)

	return r
}

// AdminRoutes is mounted at /api/admin/mosques.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin))
	r.Get("/", h.ServeAdminList)
	r.Patch("/{id}", h.HandleReview)
	return r
}
