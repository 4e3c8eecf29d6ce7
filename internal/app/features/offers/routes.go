// internal/app/features/offers/routes.go
package offers

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/offers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeView)
	r.With(auth.RequireSignedIn).Post("/{id}/redeem", h.HandleRedeem)
	return r
}

// OwnerRoutes is mounted at /api/business/offers.
func OwnerRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleBusiness, models.RoleAdmin))

	r.Get("/", h.ServeMine)
	r.Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleEdit)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/pause", h.HandlePause)
	r.Post("/{id}/resume", h.HandleResume)

	return r
}
