// internal/app/features/dashboard/business.go
package dashboard

import (
	"context"
	"net/http"

	businessstore "github.com/dalemusser/mosqueconnect/internal/app/store/businesses"
	metricsstore "github.com/dalemusser/mosqueconnect/internal/app/store/metrics"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type businessSummary struct {
	Business      models.Business            `json:"business"`
	Products      int64                      `json:"products"`
	Offers        metricsstore.ByKey         `json:"offers"`
	ActiveOffers  int64                      `json:"active_offers"`
	Certification *models.HalalCertification `json:"certification,omitempty"`
}

type businessDashboard struct {
	Businesses   []businessSummary `json:"businesses"`
	ActiveOffers int64             `json:"active_offers"`
}

// ServeBusiness handles GET /api/business/dashboard for the caller's
// businesses, up to one page of the largest size.
func (h *Handler) ServeBusiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()
	_, _, uid, _ := authz.UserCtx(r)

	p := paging.Params{Page: 1, Limit: paging.MaxLimit, Sort: "oldest"}
	bizs, _, err := h.Businesses.List(ctx, businessstore.ListFilter{OwnerID: &uid}, p)
	if err != nil {
		h.ErrLog.Store(w, r, "business", "dashboard: owner businesses", err)
		return
	}
	ids := make([]primitive.ObjectID, len(bizs))
	for i, b := range bizs {
		ids[i] = b.ID
	}

	products, err := h.Products.CountByBusiness(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: product counts", err)
		return
	}
	certs, err := h.Certifications.LatestByBusiness(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: certifications", err)
		return
	}

	out := businessDashboard{Businesses: make([]businessSummary, 0, len(bizs))}
	offers := h.DB.Collection("offers")
	for _, b := range bizs {
		byStatus, err := metricsstore.CountBy(ctx, offers, bson.M{"business_id": b.ID}, "status")
		if err != nil {
			h.ErrLog.LogServerError(w, r, "dashboard: offer counts", err)
			return
		}
		s := businessSummary{
			Business:     b,
			Products:     products[b.ID],
			Offers:       byStatus,
			ActiveOffers: byStatus[status.Active],
		}
		if c, ok := certs[b.ID]; ok {
			s.Certification = &c
		}
		out.ActiveOffers += s.ActiveOffers
		out.Businesses = append(out.Businesses, s)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
