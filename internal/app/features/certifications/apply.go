// internal/app/features/certifications/apply.go
package certifications

import (
	"context"
	"net/http"

	certificationstore "github.com/dalemusser/mosqueconnect/internal/app/store/certifications"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

type applyInput struct {
	BusinessID     string   `json:"business_id" validate:"required,objectid" label:"Business"`
	CertifyingBody string   `json:"certifying_body" validate:"required,max=200" label:"Certifying body"`
	Documents      []string `json:"documents" validate:"max=20,dive,httpurl" label:"Documents"`
	Notes          string   `json:"notes" validate:"max=2000" label:"Notes"`
}

// HandleApply handles POST /api/business/certifications. A business has at
// most one open application.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)
	var in applyInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}
	in.CertifyingBody = normalize.Name(htmlsanitize.StripTags(in.CertifyingBody))
	in.Notes = htmlsanitize.StripTags(in.Notes)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Validation(w, res)
		return
	}

	bizID, _ := httpx.ParseHex(in.BusinessID)
	b, err := h.Businesses.GetByID(ctx, bizID)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "certifications: load business", err)
		return
	}
	if !authz.CanManage(r, b.OwnerID) {
		h.ErrLog.Forbidden(w, "you can only apply for your own business")
		return
	}

	c, err := h.Certifications.Apply(ctx, models.HalalCertification{
		BusinessID:     b.ID,
		ApplicantID:    uid,
		CertifyingBody: in.CertifyingBody,
		Documents:      in.Documents,
		Notes:          in.Notes,
	})
	if err != nil {
		h.ErrLog.Store(w, r, "certification", "certifications: apply", err)
		return
	}
	h.Audit.EntityCreated(ctx, r, uid, "certification", c.ID, b.Name)
	h.Cache.Invalidate(ctx, cache.NSStats)
	httpx.WriteJSON(w, http.StatusCreated, c)
}

// ServeMine handles GET /api/business/certifications: applications for the
// caller's businesses. Admins see every application.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := certificationstore.ListFilter{Status: normalize.Filter(query.Get(r, "status"))}
	if !authz.IsAdmin(r) {
		_, _, uid, _ := authz.UserCtx(r)
		ids, err := h.Businesses.IDsByOwner(ctx, uid)
		if err != nil {
			h.ErrLog.Store(w, r, "business", "certifications: owner businesses", err)
			return
		}
		f.BusinessIDs = ids
	}
	h.list(w, r, f)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, f certificationstore.ListFilter) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.Parse(r, certificationstore.Sorts)
	items, total, err := h.Certifications.List(ctx, f, p)
	if err != nil {
		h.ErrLog.Store(w, r, "certification", "certifications: list", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(items, p, total))
}
