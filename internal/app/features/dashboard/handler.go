// internal/app/features/dashboard/handler.go
package dashboard

import (
	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	businessstore "github.com/dalemusser/mosqueconnect/internal/app/store/businesses"
	certificationstore "github.com/dalemusser/mosqueconnect/internal/app/store/certifications"
	mosquestore "github.com/dalemusser/mosqueconnect/internal/app/store/mosques"
	offerstore "github.com/dalemusser/mosqueconnect/internal/app/store/offers"
	productstore "github.com/dalemusser/mosqueconnect/internal/app/store/products"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin platform statistics and the imam and business
// owner dashboards.
type Handler struct {
	DB             *mongo.Database
	Mosques        *mosquestore.Store
	Businesses     *businessstore.Store
	Products       *productstore.Store
	Offers         *offerstore.Store
	Certifications *certificationstore.Store

	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Cache  *cache.Helper
}

func NewHandler(d shared.Deps) *Handler {
	d = d.WithDefaults()
	return &Handler{
		DB:             d.DB,
		Mosques:        mosquestore.New(d.DB),
		Businesses:     businessstore.New(d.DB),
		Products:       productstore.New(d.DB),
		Offers:         offerstore.New(d.DB),
		Certifications: certificationstore.New(d.DB, d.Log),
		Log:            d.Log,
		ErrLog:         d.ErrLog,
		Cache:          d.Cache,
	}
}
