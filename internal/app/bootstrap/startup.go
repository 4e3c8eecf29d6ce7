// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	auditstore "github.com/dalemusser/mosqueconnect/internal/app/store/audit"
	offerstore "github.com/dalemusser/mosqueconnect/internal/app/store/offers"
	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/mosqueconnect/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs after the schema is in place and before the handler is
// built: it promotes the configured admin and starts the offer sweep.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	t := timeouts.Current()
	logger.Info("store timeouts",
		zap.Duration("ping", t.Ping),
		zap.Duration("short", t.Short),
		zap.Duration("medium", t.Medium),
		zap.Duration("long", t.Long))

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}

	sweep := workers.NewOfferSweep(
		offerstore.New(deps.MongoDatabase),
		newCacheHelper(appCfg, deps, logger),
		newAuditLogger(appCfg, deps, logger),
		logger,
		appCfg.OfferSweepInterval,
	)
	sweep.Start()
	if deps.workers != nil {
		deps.workers.sweep = sweep
	}
	logger.Info("offer sweep started", zap.Duration("interval", appCfg.OfferSweepInterval))
	return nil
}

// ensureAdmin promotes an existing account to an active admin. A missing
// account is logged and skipped; admins are never created from config
// because there is no password to give them.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	opCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	found, err := userstore.New(deps.MongoDatabase).PromoteToAdmin(opCtx, email)
	if err != nil {
		logger.Error("admin promotion failed", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("promote admin: %w", err)
	}
	if !found {
		logger.Warn("admin email has no account; register it and restart", zap.String("email", email))
		return nil
	}
	logger.Info("admin account ensured", zap.String("email", email))
	return nil
}

func newCacheHelper(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *cache.Helper {
	c := deps.Cache
	if c == nil {
		c = cache.Nop{}
	}
	return cache.NewHelper(c, appCfg.CacheTTL, logger)
}

func newAuditLogger(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *auditlog.Logger {
	return auditlog.New(auditstore.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
}
