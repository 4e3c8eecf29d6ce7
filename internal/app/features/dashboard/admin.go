// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	metricsstore "github.com/dalemusser/mosqueconnect/internal/app/store/metrics"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeStats handles GET /api/admin/stats. A grouping that fails is logged
// and reported as empty; the rest of the overview is still served.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	shared.Cached(w, r, h.Cache, h.ErrLog, cache.NSStats, "stats", "dashboard: stats",
		func(ctx context.Context) (metricsstore.PlatformStats, error) {
			ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
			defer cancel()
			stats, err := metricsstore.FetchPlatformStats(ctx, h.DB)
			if err != nil {
				h.Log.Warn("platform stats incomplete", zap.Error(err))
			}
			return stats, nil
		})
}
