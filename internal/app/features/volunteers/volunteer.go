// internal/app/features/volunteers/volunteer.go
package volunteers

import (
	"context"
	"errors"
	"net/http"

	volunteerstore "github.com/dalemusser/mosqueconnect/internal/app/store/volunteers"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeProfile handles GET /api/volunteer/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)
	p, err := h.Volunteers.GetProfile(ctx, uid)
	if err != nil {
		h.ErrLog.Store(w, r, "volunteer profile", "volunteers: get profile", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

// HandleProfile handles PUT /api/volunteer/profile. Saving a profile marks
// the account as a volunteer.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)
	var in profileInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}

	p, err := h.Volunteers.UpsertProfile(ctx, models.VolunteerProfile{
		UserID:       uid,
		Bio:          htmlsanitize.StripTags(in.Bio),
		Skills:       in.Skills,
		Availability: in.Availability,
		Languages:    in.Languages,
		Experience:   htmlsanitize.StripTags(in.Experience),
	})
	if err != nil {
		h.ErrLog.Store(w, r, "volunteer profile", "volunteers: upsert profile", err)
		return
	}
	if err := h.Users.SetVolunteer(ctx, uid, true); err != nil {
		h.Log.Warn("volunteers: flag user", zap.Error(err), zap.String("user_id", uid.Hex()))
	}
	h.Audit.EntityUpdated(ctx, r, uid, "volunteer_profile", p.ID, "profile")
	httpx.WriteJSON(w, http.StatusOK, p)
}

// HandleApply handles POST /api/volunteer/applications. The mosque must be
// approved; a named need must belong to it and still be open.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)
	var in applicationInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}

	mosqueID, _ := httpx.ParseHex(in.MosqueID)
	m, err := h.Mosques.GetByID(ctx, mosqueID)
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "volunteers: apply load mosque", err)
		return
	}
	if m.Status != status.Approved {
		h.ErrLog.NotFound(w, "mosque")
		return
	}

	a := models.VolunteerApplication{
		UserID:       uid,
		MosqueID:     m.ID,
		Skills:       in.Skills,
		Availability: in.Availability,
		Motivation:   htmlsanitize.StripTags(in.Motivation),
	}
	if in.NeedID != "" {
		needID, _ := httpx.ParseHex(in.NeedID)
		n, err := h.Volunteers.GetNeed(ctx, needID)
		if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && n.MosqueID != m.ID) {
			h.ErrLog.Field(w, "need_id", "need not found at this mosque")
			return
		}
		if err != nil {
			h.ErrLog.Store(w, r, "need", "volunteers: apply load need", err)
			return
		}
		if n.Status != status.Open {
			h.ErrLog.Conflict(w, "this need is no longer open")
			return
		}
		a.NeedID = &n.ID
	}

	created, err := h.Volunteers.Apply(ctx, a)
	if err != nil {
		h.ErrLog.Store(w, r, "application", "volunteers: apply", err)
		return
	}
	h.Audit.EntityCreated(ctx, r, uid, "volunteer_application", created.ID, m.Name)
	h.Cache.Invalidate(ctx, cache.NSStats)
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// ServeMyApplications handles GET /api/volunteer/applications.
func (h *Handler) ServeMyApplications(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	h.listApplications(w, r, volunteerstore.ApplicationFilter{
		UserID: &uid,
		Status: normalize.Filter(query.Get(r, "status")),
	})
}

// HandleCreateOffer handles POST /api/volunteer/offers.
func (h *Handler) HandleCreateOffer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)
	var in offerInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	in.Title = normalize.Name(in.Title)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}
	o, err := h.Volunteers.CreateOffer(ctx, models.VolunteerOffer{
		UserID:       uid,
		Title:        in.Title,
		Description:  htmlsanitize.StripTags(in.Description),
		Skills:       in.Skills,
		Availability: in.Availability,
	})
	if err != nil {
		h.ErrLog.Store(w, r, "volunteer offer", "volunteers: create offer", err)
		return
	}
	h.Audit.EntityCreated(ctx, r, uid, "volunteer_offer", o.ID, o.Title)
	h.Cache.Invalidate(ctx, cache.NSStats)
	httpx.WriteJSON(w, http.StatusCreated, o)
}

// ServeMyOffers handles GET /api/volunteer/offers.
func (h *Handler) ServeMyOffers(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	h.listOffers(w, r, volunteerstore.OfferFilter{
		UserID: &uid,
		Status: normalize.Filter(query.Get(r, "status")),
	})
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request, f volunteerstore.ApplicationFilter) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.Parse(r, volunteerstore.Sorts)
	items, total, err := h.Volunteers.ListApplications(ctx, f, p)
	if err != nil {
		h.ErrLog.Store(w, r, "application", "volunteers: list applications", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request, f volunteerstore.OfferFilter) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.Parse(r, volunteerstore.Sorts)
	items, total, err := h.Volunteers.ListOffers(ctx, f, p)
	if err != nil {
		h.ErrLog.Store(w, r, "volunteer offer", "volunteers: list offers", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}
