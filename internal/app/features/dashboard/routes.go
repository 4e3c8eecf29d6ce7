// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// AdminRoutes is mounted at /api/admin/stats.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(auth.RequireRole(models.RoleAdmin)).Get("/", h.ServeStats)
	return r
}

// ImamRoutes is mounted at /api/imam/dashboard.
func ImamRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(auth.RequireRole(models.RoleImam, models.RoleAdmin)).Get("/", h.ServeImam)
	return r
}

// BusinessRoutes is mounted at /api/business/dashboard.
func BusinessRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(auth.RequireRole(models.RoleBusiness, models.RoleAdmin)).Get("/", h.ServeBusiness)
	return r
}
