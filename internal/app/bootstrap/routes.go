// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	announcementsfeature "github.com/dalemusser/mosqueconnect/internal/app/features/announcements"
	auditlogfeature "github.com/dalemusser/mosqueconnect/internal/app/features/auditlog"
	businessesfeature "github.com/dalemusser/mosqueconnect/internal/app/features/businesses"
	certificationsfeature "github.com/dalemusser/mosqueconnect/internal/app/features/certifications"
	dashboardfeature "github.com/dalemusser/mosqueconnect/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	healthfeature "github.com/dalemusser/mosqueconnect/internal/app/features/health"
	loginfeature "github.com/dalemusser/mosqueconnect/internal/app/features/login"
	logoutfeature "github.com/dalemusser/mosqueconnect/internal/app/features/logout"
	mosquesfeature "github.com/dalemusser/mosqueconnect/internal/app/features/mosques"
	offersfeature "github.com/dalemusser/mosqueconnect/internal/app/features/offers"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	systemusersfeature "github.com/dalemusser/mosqueconnect/internal/app/features/systemusers"
	userinfofeature "github.com/dalemusser/mosqueconnect/internal/app/features/userinfo"
	volunteersfeature "github.com/dalemusser/mosqueconnect/internal/app/features/volunteers"
	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router once configuration, backends,
// schema and Startup are in place.
//
// Every request passes through LoadSessionUser, which resolves a cookie
// session or bearer token to a fresh SessionUser. Features mount on
// distinct prefixes; where one prefix nests inside another
// (/api/business/offers under /api/business) chi routes the longer static
// match first.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	sessionMgr, err := auth.NewSessionManager(auth.Config{
		SessionKey:  appCfg.SessionKey,
		SessionName: appCfg.SessionName,
		Domain:      appCfg.SessionDomain,
		MaxAge:      appCfg.SessionMaxAge,
		Secure:      coreCfg.Env == "prod",
		JWTSecret:   appCfg.JWTSecret,
		JWTTTL:      appCfg.JWTTTL,
	}, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Role changes and disabled accounts take effect on the next request.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLogger := newAuditLogger(appCfg, deps, logger)
	d := shared.Deps{
		DB:     deps.MongoDatabase,
		Log:    logger,
		ErrLog: errLog,
		Audit:  auditLogger,
		Cache:  newCacheHelper(appCfg, deps, logger),
	}

	r := chi.NewRouter()
	r.NotFound(errorsfeature.NotFoundHandler)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowedHandler)
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Cache, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr,
		ratelimit.NewLoginLimiter(appCfg.LoginRateLimit), auditLogger, errLog, logger)
	r.Mount("/api/auth/login", loginfeature.Routes(loginHandler))
	r.Mount("/api/auth/register", loginfeature.RegisterRoutes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger, logger)
	r.Mount("/api/auth/logout", logoutfeature.Routes(logoutHandler))

	userinfoHandler := userinfofeature.NewHandler(deps.MongoDatabase, errLog)
	r.Mount("/api/auth/me", userinfofeature.Routes(userinfoHandler))

	// Mosques
	mosques := mosquesfeature.NewHandler(d)
	r.Mount("/api/mosques", mosquesfeature.Routes(mosques))
	r.Mount("/api/admin/mosques", mosquesfeature.AdminRoutes(mosques))

	// Businesses, products and offers
	businesses := businessesfeature.NewHandler(d)
	r.Mount("/api/businesses", businessesfeature.Routes(businesses))
	r.Mount("/api/business", businessesfeature.OwnerRoutes(businesses))
	r.Mount("/api/admin/businesses", businessesfeature.AdminRoutes(businesses))

	offers := offersfeature.NewHandler(d)
	r.Mount("/api/offers", offersfeature.Routes(offers))
	r.Mount("/api/business/offers", offersfeature.OwnerRoutes(offers))

	certifications := certificationsfeature.NewHandler(d)
	r.Mount("/api/business/certifications", certificationsfeature.OwnerRoutes(certifications))
	r.Mount("/api/admin/certifications", certificationsfeature.AdminRoutes(certifications))

	// Volunteers
	volunteers := volunteersfeature.NewHandler(d)
	r.Mount("/api/volunteer", volunteersfeature.Routes(volunteers))
	r.Mount("/api/imam", volunteersfeature.ImamRoutes(volunteers))
	r.Mount("/api/admin/volunteers", volunteersfeature.AdminRoutes(volunteers))

	// Announcements
	announcements := announcementsfeature.NewHandler(d)
	r.Mount("/api/announcements", announcementsfeature.Routes(announcements))
	r.Mount("/api/admin/announcements", announcementsfeature.AdminRoutes(announcements))

	// Dashboards and statistics
	dashboards := dashboardfeature.NewHandler(d)
	r.Mount("/api/admin/stats", dashboardfeature.AdminRoutes(dashboards))
	r.Mount("/api/imam/dashboard", dashboardfeature.ImamRoutes(dashboards))
	r.Mount("/api/business/dashboard", dashboardfeature.BusinessRoutes(dashboards))

	// Administration
	users := systemusersfeature.NewHandler(d)
	r.Mount("/api/admin/users", systemusersfeature.Routes(users))

	events := auditlogfeature.NewHandler(d)
	r.Mount("/api/admin/audit", auditlogfeature.Routes(events))

	return r, nil
}
