// internal/app/features/volunteers/needs.go
package volunteers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	volunteerstore "github.com/dalemusser/mosqueconnect/internal/app/store/volunteers"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeNeeds handles GET /api/volunteer/needs: open needs, optionally
// narrowed by mosque, urgency or skill.
func (h *Handler) ServeNeeds(w http.ResponseWriter, r *http.Request) {
	mosqueID, err := httpx.ParseOptionalHex(query.Get(r, "mosque_id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid mosque id")
		return
	}
	f := volunteerstore.NeedFilter{
		MosqueID: mosqueID,
		Status:   status.Open,
		Urgency:  normalize.Filter(query.Get(r, "urgency")),
		Skill:    normalize.Category(query.Get(r, "skill")),
		Search:   normalize.QueryParam(query.Get(r, "search")),
	}
	p := paging.Parse(r, volunteerstore.NeedSorts)

	shared.Cached(w, r, h.Cache, h.ErrLog, cache.NSNeeds, "need", "volunteers: list needs",
		func(ctx context.Context) (paging.Page[models.VolunteerNeed], error) {
			items, total, err := h.Volunteers.ListNeeds(ctx, f, p)
			if err != nil {
				return paging.Page[models.VolunteerNeed]{}, err
			}
			return paging.NewPage(items, p, total), nil
		})
}

// ServeMosqueNeeds handles GET /api/imam/needs: every need of the imam's
// mosque, any status. Admins may pass mosque_id or see all.
func (h *Handler) ServeMosqueNeeds(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	mosqueID, ok := h.scopeMosque(w, r)
	if !ok {
		return
	}
	p := paging.Parse(r, volunteerstore.NeedSorts)
	items, total, err := h.Volunteers.ListNeeds(ctx, volunteerstore.NeedFilter{
		MosqueID: mosqueID,
		Status:   normalize.Filter(query.Get(r, "status")),
		Urgency:  normalize.Filter(query.Get(r, "urgency")),
	}, p)
	if err != nil {
		h.ErrLog.Store(w, r, "need", "volunteers: list mosque needs", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}

// HandleCreateNeed handles POST /api/imam/needs. Imams post for their own
// mosque; admins name one with mosque_id.
func (h *Handler) HandleCreateNeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)
	var in needInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}
	if !in.datesOK() {
		h.ErrLog.Field(w, "end_date", "End date must be after the start date.")
		return
	}

	var mosqueID primitive.ObjectID
	switch {
	case in.MosqueID != "":
		mosqueID, _ = httpx.ParseHex(in.MosqueID)
		if !h.canManageMosque(w, r, mosqueID) {
			return
		}
	case authz.IsAdmin(r):
		h.ErrLog.Field(w, "mosque_id", "Mosque is required.")
		return
	default:
		id, err := h.imamMosque(r)
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.Conflict(w, "register a mosque before posting needs")
			return
		}
		if err != nil {
			h.ErrLog.Store(w, r, "mosque", "volunteers: imam mosque", err)
			return
		}
		mosqueID = id
	}

	n := in.model()
	n.MosqueID = mosqueID
	n.PostedBy = uid
	created, err := h.Volunteers.CreateNeed(ctx, n)
	if err != nil {
		h.ErrLog.Store(w, r, "need", "volunteers: create need", err)
		return
	}
	h.Audit.EntityCreated(ctx, r, uid, "volunteer_need", created.ID, created.Title)
	h.Cache.Invalidate(ctx, cache.NSNeeds, cache.NSStats)
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// loadManagedNeed loads {id} and checks the caller runs its mosque.
func (h *Handler) loadManagedNeed(w http.ResponseWriter, r *http.Request) (*models.VolunteerNeed, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.ErrLog.Store(w, r, "need", "", err)
		return nil, false
	}
	n, err := h.Volunteers.GetNeed(ctx, id)
	if err != nil {
		h.ErrLog.Store(w, r, "need", "volunteers: load need", err)
		return nil, false
	}
	if !h.canManageMosque(w, r, n.MosqueID) {
		return nil, false
	}
	return n, true
}

// HandleEditNeed handles PUT /api/imam/needs/{id}.
func (h *Handler) HandleEditNeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cur, ok := h.loadManagedNeed(w, r)
	if !ok {
		return
	}
	var in needInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}
	if !in.datesOK() {
		h.ErrLog.Field(w, "end_date", "End date must be after the start date.")
		return
	}
	n, err := h.Volunteers.UpdateNeed(ctx, cur.ID, in.model())
	if err != nil {
		h.ErrLog.Store(w, r, "need", "volunteers: update need", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityUpdated(ctx, r, uid, "volunteer_need", n.ID, "details")
	h.Cache.Invalidate(ctx, cache.NSNeeds)
	httpx.WriteJSON(w, http.StatusOK, n)
}

// HandleNeedStatus handles PATCH /api/imam/needs/{id}/status.
func (h *Handler) HandleNeedStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cur, ok := h.loadManagedNeed(w, r)
	if !ok {
		return
	}
	var in needStatusInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	in.Status = normalize.Status(in.Status)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}
	n, err := h.Volunteers.SetNeedStatus(ctx, cur.ID, in.Status)
	if err != nil {
		h.ErrLog.Store(w, r, "need", "volunteers: need status", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityReviewed(ctx, r, uid, "volunteer_need", n.ID, cur.Status, n.Status, "")
	h.Cache.Invalidate(ctx, cache.NSNeeds, cache.NSStats)
	httpx.WriteJSON(w, http.StatusOK, n)
}

// scopeMosque resolves which mosque an imam-side list covers. Imams are
// pinned to their own mosque; admins get mosque_id or everything.
func (h *Handler) scopeMosque(w http.ResponseWriter, r *http.Request) (*primitive.ObjectID, bool) {
	if authz.IsAdmin(r) {
		id, err := httpx.ParseOptionalHex(query.Get(r, "mosque_id"))
		if err != nil {
			h.ErrLog.BadRequest(w, "invalid mosque id")
			return nil, false
		}
		return id, true
	}
	id, err := h.imamMosque(r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.NotFound(w, "mosque")
		return nil, false
	}
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "volunteers: imam mosque", err)
		return nil, false
	}
	return &id, true
}
