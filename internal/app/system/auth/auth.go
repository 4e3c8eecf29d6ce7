// Package auth resolves the caller of each request. A caller is
// authenticated either by the gorilla session cookie set at login or by an
// HS256 bearer token; both yield the same SessionUser in the request
// context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"

	tokenIssuer = "mosqueconnect"
)

// SessionUser is the authenticated caller injected into r.Context().
type SessionUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	MosqueID string `json:"mosque_id,omitempty"`
}

// UserFetcher loads the current state of a user on each request so role
// changes and disables take effect immediately. It returns nil when the
// user no longer exists or is disabled.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// Config configures a SessionManager.
type Config struct {
	SessionKey  string
	SessionName string
	Domain      string
	MaxAge      time.Duration
	Secure      bool
	JWTSecret   string
	JWTTTL      time.Duration
}

// SessionManager owns the cookie store and token signing key.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	secret  []byte
	ttl     time.Duration
	fetcher UserFetcher
	log     *zap.Logger
}

// ErrInvalidToken is returned by ParseToken for any unusable token.
var ErrInvalidToken = errors.New("invalid or expired token")

// NewSessionManager builds the cookie store and token signer.
func NewSessionManager(cfg Config, logger *zap.Logger) (*SessionManager, error) {
	if cfg.SessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(cfg.SessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(cfg.SessionKey)))
	}
	secret := cfg.JWTSecret
	if secret == "" {
		secret = cfg.SessionKey
	}
	if cfg.SessionName == "" {
		cfg.SessionName = "mosqueconnect-session"
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 7 * 24 * time.Hour
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 24 * time.Hour
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionKey))
	store.Options = &sessions.Options{
		Domain:   cfg.Domain,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.Secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	logger.Info("session store initialized",
		zap.Bool("secure", cfg.Secure),
		zap.String("domain", cfg.Domain),
		zap.Duration("token_ttl", cfg.JWTTTL))

	return &SessionManager{
		store:  store,
		name:   cfg.SessionName,
		secret: []byte(secret),
		ttl:    cfg.JWTTTL,
		log:    logger,
	}, nil
}

// SetUserFetcher installs the per-request user loader.
func (m *SessionManager) SetUserFetcher(f UserFetcher) { m.fetcher = f }

// TokenTTL is the lifetime of issued bearer tokens.
func (m *SessionManager) TokenTTL() time.Duration { return m.ttl }

/*─────────────────────────────────────────────────────────────────────────────*
| Sessions                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// SignIn stores the user id in the session cookie.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess := m.session(r)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// session returns the request's cookie session. A cookie that fails to
// decode (rotated key, tampering) yields a fresh session.
func (m *SessionManager) session(r *http.Request) *sessions.Session {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			m.log.Error("session store error, using fresh session", zap.Error(err))
		}
	}
	return sess
}

// SignOut expires the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := m.session(r)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Bearer tokens                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// IssueToken signs a bearer token for u.
func (m *SessionManager) IssueToken(u SessionUser) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: u.Role,
		Name: u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

// ParseToken verifies a bearer token and returns the user it names.
func (m *SessionManager) ParseToken(raw string) (*SessionUser, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &SessionUser{ID: c.Subject, Name: c.Name, Role: c.Role}, nil
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:]), true
	}
	return "", false
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser injects the caller into the context when a bearer token
// or session cookie identifies one. A bearer token takes precedence; an
// invalid token leaves the request anonymous rather than falling back to
// the cookie. With a UserFetcher installed the user is reloaded, and a
// deleted or disabled user is treated as anonymous.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var u *SessionUser
		if raw, ok := bearer(r); ok {
			pu, err := m.ParseToken(raw)
			if err != nil {
				m.log.Debug("bearer token rejected", zap.Error(err))
			}
			u = pu
		} else if sess, err := m.store.Get(r, m.name); err == nil {
			if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
				if id, _ := sess.Values[userIDKey].(string); id != "" {
					u = &SessionUser{ID: id}
				}
			}
		}

		if u != nil && m.fetcher != nil {
			u = m.fetcher.FetchUser(r.Context(), u.ID)
		}
		if u != nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects anonymous callers with 401.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous callers with 401 and callers outside
// allowed with 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				unauthorized(w)
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				uierrors.RenderForbidden(w, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	uierrors.RenderUnauthorized(w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Context                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser returns r carrying u as the current user.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}
