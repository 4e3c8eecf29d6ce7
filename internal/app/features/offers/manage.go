// internal/app/features/offers/manage.go
package offers

import (
	"context"
	"errors"
	"net/http"

	offerstore "github.com/dalemusser/mosqueconnect/internal/app/store/offers"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
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

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (offerInput, bool) {
	var in offerInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return in, false
	}
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return in, false
	}
	return in, true
}

// targetBusiness resolves the business an offer is created for: the one
// named in the body, or the caller's first approved business.
func (h *Handler) targetBusiness(w http.ResponseWriter, r *http.Request, in offerInput) (*models.Business, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)
	if in.BusinessID == "" {
		b, err := h.Businesses.FirstApprovedByOwner(ctx, uid)
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.Field(w, "business_id", "you have no approved business to create offers for")
			return nil, false
		}
		if err != nil {
			h.ErrLog.Store(w, r, "business", "offers: default business", err)
			return nil, false
		}
		return b, true
	}

	id, err := httpx.ParseHex(in.BusinessID)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "", err)
		return nil, false
	}
	b, err := h.Businesses.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "offers: load business", err)
		return nil, false
	}
	if !authz.CanManage(r, b.OwnerID) {
		h.ErrLog.Forbidden(w, "you can only create offers for your own business")
		return nil, false
	}
	if b.Status != status.Approved {
		h.ErrLog.Conflict(w, "the business must be approved before it can publish offers")
		return nil, false
	}
	return b, true
}

// HandleCreate handles POST /api/business/offers. The initial status
// follows the validity window.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	b, ok := h.targetBusiness(w, r, in)
	if !ok {
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	o := in.model()
	o.BusinessID = b.ID
	o.CreatedBy = uid

	created, err := h.Offers.Create(ctx, o)
	if err != nil {
		h.ErrLog.Store(w, r, "offer", "offers: create", err)
		return
	}
	h.Audit.EntityCreated(ctx, r, uid, "offer", created.ID, created.Title)
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// HandleEdit handles PUT /api/business/offers/{id}.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	o, ok := h.loadManaged(w, r)
	if !ok {
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.Offers.Update(ctx, o.ID, in.model())
	if err != nil {
		h.ErrLog.Store(w, r, "offer", "offers: update", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityUpdated(ctx, r, uid, "offer", o.ID, "terms")
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/business/offers/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	o, ok := h.loadManaged(w, r)
	if !ok {
		return
	}
	if err := h.Offers.Delete(ctx, o.ID); err != nil {
		h.ErrLog.Store(w, r, "offer", "offers: delete", err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityDeleted(ctx, r, uid, "offer", o.ID, o.Title)
	h.invalidate(r)
	httpx.NoContent(w)
}

// HandlePause handles POST /api/business/offers/{id}/pause.
func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "pause", h.Offers.Pause)
}

// HandleResume handles POST /api/business/offers/{id}/resume.
func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "resume", h.Offers.Resume)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, primitive.ObjectID) (*models.Offer, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	o, ok := h.loadManaged(w, r)
	if !ok {
		return
	}
	out, err := fn(ctx, o.ID)
	if err != nil {
		h.ErrLog.Store(w, r, "offer", "offers: "+op, err)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.EntityReviewed(ctx, r, uid, "offer", o.ID, o.Status, out.Status, op)
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusOK, out)
}

// ServeMine handles GET /api/business/offers: offers of the caller's
// businesses (all offers for admins).
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := offerstore.ListFilter{
		Status: normalize.Filter(query.Get(r, "status")),
		Search: normalize.QueryParam(query.Get(r, "search")),
	}
	if !authz.IsAdmin(r) {
		_, _, uid, _ := authz.UserCtx(r)
		ids, err := h.Businesses.IDsByOwner(ctx, uid)
		if err != nil {
			h.ErrLog.Store(w, r, "business", "offers: owner businesses", err)
			return
		}
		f.BusinessIDs = ids
	}
	p := paging.Parse(r, offerstore.Sorts)
	items, total, err := h.Offers.List(ctx, f, p)
	if err != nil {
		h.ErrLog.Store(w, r, "offer", "offers: list mine", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}
