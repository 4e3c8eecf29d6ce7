// internal/app/features/announcements/routes.go
package announcements

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/announcements.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeView)
	r.With(auth.RequireRole(models.RoleBusiness, models.RoleAdmin)).Post("/", h.HandleCreate)
	return r
}

// AdminRoutes is mounted at /api/admin/announcements.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin))

	r.Get("/", h.ServeAdminList)
	r.Patch("/{id}", h.HandleReview)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
