// internal/app/features/announcements/new.go
package announcements

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleCreate handles POST /api/announcements. Admins post platform-wide
// notices, which are live at once. Business owners post for one of their
// approved businesses and wait for review.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)
	var in announcementInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(h.Now()) {
		h.ErrLog.Field(w, "expires_at", "Expiry must be in the future.")
		return
	}

	a := models.Announcement{
		Title:     in.Title,
		Content:   in.Content,
		Type:      in.Type,
		AuthorID:  uid,
		ExpiresAt: in.ExpiresAt,
	}
	if !authz.IsAdmin(r) || in.BusinessID != "" {
		bizID, ok := h.targetBusiness(w, r, in.BusinessID, uid)
		if !ok {
			return
		}
		a.BusinessID = &bizID
	}

	created, err := h.Announcements.Create(ctx, a)
	if err != nil {
		h.ErrLog.Store(w, r, "announcement", "announcements: create", err)
		return
	}
	h.Audit.EntityCreated(ctx, r, uid, "announcement", created.ID, created.Title)
	h.invalidate(r)
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// targetBusiness picks the business an announcement is posted for. With
// no id given it falls back to the owner's oldest approved business.
func (h *Handler) targetBusiness(w http.ResponseWriter, r *http.Request, hex string, uid primitive.ObjectID) (primitive.ObjectID, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if hex == "" {
		b, err := h.Businesses.FirstApprovedByOwner(ctx, uid)
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.Field(w, "business_id", "You need an approved business to post announcements.")
			return primitive.NilObjectID, false
		}
		if err != nil {
			h.ErrLog.Store(w, r, "business", "announcements: owner business", err)
			return primitive.NilObjectID, false
		}
		return b.ID, true
	}

	id, _ := httpx.ParseHex(hex)
	b, err := h.Businesses.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "announcements: load business", err)
		return primitive.NilObjectID, false
	}
	if !authz.CanManage(r, b.OwnerID) {
		h.ErrLog.Forbidden(w, "you can only post for your own business")
		return primitive.NilObjectID, false
	}
	if b.Status != status.Approved {
		h.ErrLog.Conflict(w, "business is not approved")
		return primitive.NilObjectID, false
	}
	return b.ID, true
}
