// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/admin/audit.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin))

	r.Get("/", h.ServeList)
	r.Get("/event-types", h.ServeEventTypes)
	return r
}
