package login_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/mosqueconnect/internal/app/features/errors"
	"github.com/dalemusser/mosqueconnect/internal/app/features/login"
	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/indexes"
	"github.com/dalemusser/mosqueconnect/internal/app/system/ratelimit"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, perMinute int) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	logger := zap.NewNop()
	h := login.NewHandler(db, testutil.NewSessionManager(t), ratelimit.NewLoginLimiter(perMinute),
		auditlog.NewNopLogger(), uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func post(h http.HandlerFunc, t *testing.T, body any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h(rec, testutil.JSONRequest(t, http.MethodPost, "/", body))
	return rec
}

func TestHandleLogin_Success(t *testing.T) {
	h, fx := newHandler(t, 10)
	ctx := context.Background()
	u := fx.CreateUser(ctx, "Amina Yusuf", "amina@example.com", models.RoleBusiness)

	rec := post(h.HandleLogin, t, map[string]string{"email": "  AMINA@example.com", "password": testutil.TestPassword})
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	rec.Decode(t, &resp)
	if resp.User.ID != u.ID || resp.Token == "" {
		t.Fatalf("response = %+v", resp)
	}
	rec.AssertContains(t, `"role":"business"`)
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}

	sm := testutil.NewSessionManager(t)
	su, err := sm.ParseToken(resp.Token)
	if err != nil || su.ID != u.ID.Hex() || su.Role != models.RoleBusiness {
		t.Errorf("token user = %+v, err = %v", su, err)
	}
}

func TestHandleLogin_Failures(t *testing.T) {
	h, fx := newHandler(t, 50)
	ctx := context.Background()
	fx.CreateUser(ctx, "Omar", "omar@example.com", models.RoleUser)
	fx.CreateDisabledUser(ctx, "Gone", "gone@example.com")

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"wrong password", map[string]string{"email": "omar@example.com", "password": "nope-nope-nope"}, http.StatusUnauthorized},
		{"unknown email", map[string]string{"email": "nobody@example.com", "password": "whatever1"}, http.StatusUnauthorized},
		{"disabled", map[string]string{"email": "gone@example.com", "password": testutil.TestPassword}, http.StatusForbidden},
		{"missing password", map[string]string{"email": "omar@example.com"}, http.StatusBadRequest},
		{"bad email", map[string]string{"email": "omar", "password": "x"}, http.StatusBadRequest},
		{"malformed", "{not json", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h.HandleLogin, t, tt.body)
			rec.AssertStatus(t, tt.status)
			if tt.status == http.StatusUnauthorized {
				rec.AssertContains(t, "invalid email or password")
			}
		})
	}
}

func TestHandleLogin_RateLimited(t *testing.T) {
	h, _ := newHandler(t, 2)
	body := map[string]string{"email": "x@example.com", "password": "whatever1"}

	post(h.HandleLogin, t, body).AssertStatus(t, http.StatusUnauthorized)
	post(h.HandleLogin, t, body).AssertStatus(t, http.StatusUnauthorized)
	rec := post(h.HandleLogin, t, body)
	rec.AssertStatus(t, http.StatusTooManyRequests)
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After")
	}
}

func TestHandleRegister(t *testing.T) {
	h, _ := newHandler(t, 10)

	rec := post(h.HandleRegister, t, map[string]string{
		"full_name": "  Bilal   Hassan ",
		"email":     "Bilal@Example.com",
		"password":  "long-enough-pw",
		"role":      "imam",
	})
	rec.AssertStatus(t, http.StatusCreated)
	var u models.User
	rec.Decode(t, &u)
	if u.FullName != "Bilal Hassan" || u.Email != "bilal@example.com" || u.Role != models.RoleImam || u.Status != "active" {
		t.Errorf("user = %+v", u)
	}
	if u.PasswordHash != "" {
		t.Error("password hash leaked")
	}
	if body := rec.Body.String(); strings.Contains(body, "password") {
		t.Errorf("body mentions password: %s", body)
	}

	// The new account can log in.
	post(h.HandleLogin, t, map[string]string{"email": "bilal@example.com", "password": "long-enough-pw"}).
		AssertStatus(t, http.StatusOK)
}

func TestHandleRegister_Rejects(t *testing.T) {
	h, fx := newHandler(t, 10)
	fx.CreateUser(context.Background(), "Taken", "taken@example.com", models.RoleUser)

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"admin role", map[string]string{"full_name": "A", "email": "a@example.com", "password": "long-enough-pw", "role": "admin"}, http.StatusBadRequest},
		{"short password", map[string]string{"full_name": "A", "email": "a@example.com", "password": "short"}, http.StatusBadRequest},
		{"missing name", map[string]string{"email": "a@example.com", "password": "long-enough-pw"}, http.StatusBadRequest},
		{"duplicate email", map[string]string{"full_name": "A", "email": "TAKEN@example.com", "password": "long-enough-pw"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post(h.HandleRegister, t, tt.body).AssertStatus(t, tt.status)
		})
	}
}
