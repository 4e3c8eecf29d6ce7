// internal/app/features/dashboard/imam.go
package dashboard

import (
	"context"
	"errors"
	"net/http"

	metricsstore "github.com/dalemusser/mosqueconnect/internal/app/store/metrics"
	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type imamDashboard struct {
	Mosque              *models.Mosque     `json:"mosque"`
	Applications        metricsstore.ByKey `json:"applications"`
	PendingApplications int64              `json:"pending_applications"`
	Needs               metricsstore.ByKey `json:"needs"`
	OpenNeeds           int64              `json:"open_needs"`
}

// ServeImam handles GET /api/imam/dashboard. An imam without a mosque gets
// an empty dashboard.
func (h *Handler) ServeImam(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out := imamDashboard{Applications: metricsstore.ByKey{}, Needs: metricsstore.ByKey{}}

	var m *models.Mosque
	var err error
	if id := authz.UserMosqueID(r); !id.IsZero() {
		m, err = h.Mosques.GetByID(ctx, id)
	} else {
		_, _, uid, _ := authz.UserCtx(r)
		m, err = h.Mosques.GetByImam(ctx, uid)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpx.WriteJSON(w, http.StatusOK, out)
		return
	}
	if err != nil {
		h.ErrLog.Store(w, r, "mosque", "dashboard: imam mosque", err)
		return
	}
	out.Mosque = m

	match := bson.M{"mosque_id": m.ID}
	if out.Applications, err = metricsstore.CountBy(ctx, h.DB.Collection("volunteer_applications"), match, "status"); err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: imam applications", err)
		return
	}
	if out.Needs, err = metricsstore.CountBy(ctx, h.DB.Collection("volunteer_needs"), match, "status"); err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: imam needs", err)
		return
	}
	out.PendingApplications = out.Applications[status.Pending]
	out.OpenNeeds = out.Needs[status.Open]
	httpx.WriteJSON(w, http.StatusOK, out)
}
