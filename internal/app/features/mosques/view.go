// internal/app/features/mosques/view.go
package mosques

import (
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/system/authz"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
)

// ServeView handles GET /api/mosques/{id}. Unapproved mosques are visible
// only to their imam and admins; everyone else gets 404.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	if m.Status != status.Approved && !authz.CanManage(r, m.ImamID) {
		h.ErrLog.NotFound(w, "mosque")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, m)
}
