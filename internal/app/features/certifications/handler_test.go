package certifications_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/mosqueconnect/internal/app/features/certifications"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	businessstore "github.com/dalemusser/mosqueconnect/internal/app/store/businesses"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

type env struct {
	db           *mongo.Database
	fx           *testutil.Fixtures
	owner, admin chi.Router
	ownerUser    models.User
	biz          models.Business
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := certifications.NewHandler(shared.Deps{DB: db})
	fx := testutil.NewFixtures(t, db)
	ctx := context.Background()
	u := fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleBusiness)
	b := fx.CreateBusiness(ctx, "Al-Madina Butchers", u.ID, "approved")
	return env{db: db, fx: fx, owner: certifications.OwnerRoutes(h), admin: certifications.AdminRoutes(h), ownerUser: u, biz: b}
}

func do(t *testing.T, r chi.Router, user *testutil.TestUser, method, path string, body any) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.JSONRequest(t, method, path, body)
	if user != nil {
		req = testutil.WithUser(req, *user)
	}
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func application(bizID string) map[string]any {
	return map[string]any{
		"business_id":     bizID,
		"certifying_body": "Halal Food Authority",
		"documents":       []string{"https://docs.example.org/audit.pdf"},
	}
}

func TestApplyAndApprove(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testutil.AsTestUser(e.ownerUser)

	rec := do(t, e.owner, &owner, http.MethodPost, "/", application(e.biz.ID.Hex()))
	rec.AssertStatus(t, http.StatusCreated)
	var c models.HalalCertification
	rec.Decode(t, &c)
	if c.Status != "pending" || c.ApplicantID != e.ownerUser.ID || c.CertificateNumber != "" {
		t.Errorf("certification = %+v", c)
	}

	// One open application per business.
	do(t, e.owner, &owner, http.MethodPost, "/", application(e.biz.ID.Hex())).AssertStatus(t, http.StatusConflict)

	admin := testutil.AdminUser()
	path := "/" + c.ID.Hex()
	do(t, e.admin, &admin, http.MethodPatch, path, map[string]any{"status": "under_review"}).AssertStatus(t, http.StatusOK)
	// Still open while under review.
	do(t, e.owner, &owner, http.MethodPost, "/", application(e.biz.ID.Hex())).AssertStatus(t, http.StatusConflict)

	rec = do(t, e.admin, &admin, http.MethodPatch, path, map[string]any{"status": "approved", "notes": "audit passed"})
	rec.AssertStatus(t, http.StatusOK)
	rec.Decode(t, &c)
	if c.Status != "approved" || !strings.HasPrefix(c.CertificateNumber, "HC-") || c.IssuedAt == nil || c.ExpiryDate == nil {
		t.Errorf("approved = %+v", c)
	}

	b, err := businessstore.New(e.db).GetByID(ctx, e.biz.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !b.HalalCertified {
		t.Error("business not marked halal certified")
	}

	do(t, e.admin, &admin, http.MethodPatch, path, map[string]any{"status": "rejected"}).AssertStatus(t, http.StatusConflict)

	// A closed application no longer blocks a new one.
	do(t, e.owner, &owner, http.MethodPost, "/", application(e.biz.ID.Hex())).AssertStatus(t, http.StatusCreated)
}

func TestApply_Rejects(t *testing.T) {
	e := setup(t)
	owner := testutil.AsTestUser(e.ownerUser)
	other := e.fx.CreateBusiness(context.Background(), "Other", testutil.BusinessUser().OID(), "approved")

	do(t, e.owner, &owner, http.MethodPost, "/", application(other.ID.Hex())).AssertStatus(t, http.StatusForbidden)

	bad := application(e.biz.ID.Hex())
	bad["documents"] = []string{"javascript:alert(1)"}
	do(t, e.owner, &owner, http.MethodPost, "/", bad).AssertStatus(t, http.StatusBadRequest)

	missing := application(e.biz.ID.Hex())
	delete(missing, "certifying_body")
	do(t, e.owner, &owner, http.MethodPost, "/", missing).AssertStatus(t, http.StatusBadRequest)

	user := testutil.PlainUser()
	do(t, e.owner, &user, http.MethodPost, "/", application(e.biz.ID.Hex())).AssertStatus(t, http.StatusForbidden)
}

func TestLists(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.fx.CreateCertification(ctx, e.biz.ID, e.ownerUser.ID, "pending")
	stranger := testutil.BusinessUser()
	otherBiz := e.fx.CreateBusiness(ctx, "Other", stranger.OID(), "approved")
	e.fx.CreateCertification(ctx, otherBiz.ID, stranger.OID(), "rejected")

	var page paging.Page[models.HalalCertification]
	owner := testutil.AsTestUser(e.ownerUser)
	rec := do(t, e.owner, &owner, http.MethodGet, "/", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.Decode(t, &page)
	if len(page.Items) != 1 || page.Items[0].BusinessID != e.biz.ID {
		t.Errorf("owner sees %+v", page.Items)
	}

	// An owner with no businesses sees nothing rather than everything.
	nobody := testutil.BusinessUser()
	rec = do(t, e.owner, &nobody, http.MethodGet, "/", nil)
	rec.Decode(t, &page)
	if len(page.Items) != 0 {
		t.Errorf("owner without businesses sees %d", len(page.Items))
	}

	admin := testutil.AdminUser()
	rec = do(t, e.admin, &admin, http.MethodGet, "/?status=rejected", nil)
	rec.Decode(t, &page)
	if len(page.Items) != 1 || page.Items[0].BusinessID != otherBiz.ID {
		t.Errorf("admin rejected = %+v", page.Items)
	}
	rec = do(t, e.admin, &admin, http.MethodGet, "/?business_id="+e.biz.ID.Hex(), nil)
	rec.Decode(t, &page)
	if len(page.Items) != 1 {
		t.Errorf("admin by business = %d, want 1", len(page.Items))
	}

	do(t, e.admin, &owner, http.MethodGet, "/", nil).AssertStatus(t, http.StatusForbidden)
}
