// internal/app/features/volunteers/routes.go
package volunteers

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/volunteer.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/needs", h.ServeNeeds)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Get("/profile", h.ServeProfile)
		r.Put("/profile", h.HandleProfile)
		r.Get("/applications", h.ServeMyApplications)
		r.Post("/applications", h.HandleApply)
		r.Get("/offers", h.ServeMyOffers)
		r.Post("/offers", h.HandleCreateOffer)
	})
	return r
}

// ImamRoutes is mounted at /api/imam.
func ImamRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleImam, models.RoleAdmin))

	r.Get("/needs", h.ServeMosqueNeeds)
	r.Post("/needs", h.HandleCreateNeed)
	r.Put("/needs/{id}", h.HandleEditNeed)
	r.Patch("/needs/{id}/status", h.HandleNeedStatus)
	r.Get("/applications", h.ServeMosqueApplications)
	r.Patch("/applications/{id}", h.HandleReviewApplication)
	return r
}

// AdminRoutes is mounted at /api/admin/volunteers.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin))

	r.Get("/applications", h.ServeMosqueApplications)
	r.Patch("/applications/{id}", h.HandleReviewApplication)
	r.Get("/offers", h.ServeAllOffers)
	r.Patch("/offers/{id}", h.HandleReviewOffer)
	return r
}
