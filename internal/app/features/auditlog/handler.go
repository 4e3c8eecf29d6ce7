// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	"github.com/dalemusser/mosqueconnect/internal/app/store/audit"
	"go.uber.org/zap"
)

type Handler struct {
	Events *audit.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs the admin audit log handler.
func NewHandler(d shared.Deps) *Handler {
	d = d.WithDefaults()
	return &Handler{
		Events: audit.New(d.DB),
		Log:    d.Log,
		ErrLog: d.ErrLog,
	}
}
