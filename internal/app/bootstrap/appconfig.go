// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds MosqueConnect's app-level configuration. WAFFLE's
// CoreConfig covers ports, TLS, logging and CORS; everything specific to
// this service lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Cookie sessions
	SessionKey    string // signs session cookies; must be strong in production
	SessionName   string
	SessionDomain string // blank means current host
	SessionMaxAge time.Duration

	// Bearer tokens
	JWTSecret string // HS256 signing key; falls back to SessionKey when blank
	JWTTTL    time.Duration

	// Redis cache. A blank address selects the in-process cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Background offer sweep
	OfferSweepInterval time.Duration

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Login attempts allowed per minute per client
	LoginRateLimit int

	// Store operation timeouts; zero keeps the built-in default
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Existing account promoted to admin on startup
	AdminEmail string
}
