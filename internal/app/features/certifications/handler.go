// internal/app/features/certifications/handler.go
package certifications

import (
	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	businessstore "github.com/dalemusser/mosqueconnect/internal/app/store/businesses"
	certificationstore "github.com/dalemusser/mosqueconnect/internal/app/store/certifications"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"go.uber.org/zap"
)

// Handler serves halal certification applications and their review.
type Handler struct {
	Certifications *certificationstore.Store
	Businesses     *businessstore.Store

	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Cache  *cache.Helper
}

func NewHandler(d shared.Deps) *Handler {
	d = d.WithDefaults()
	return &Handler{
		Certifications: certificationstore.New(d.DB, d.Log),
		Businesses:     businessstore.New(d.DB),
		Log:            d.Log,
		ErrLog:         d.ErrLog,
		Audit:          d.Audit,
		Cache:          d.Cache,
	}
}
