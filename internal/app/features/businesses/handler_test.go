package businesses_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/mosqueconnect/internal/app/features/businesses"
	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type env struct {
	db                   *mongo.Database
	fx                   *testutil.Fixtures
	public, owner, admin chi.Router
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := businesses.NewHandler(shared.Deps{DB: db})
	return env{
		db:     db,
		fx:     testutil.NewFixtures(t, db),
		public: businesses.Routes(h),
		owner:  businesses.OwnerRoutes(h),
		admin:  businesses.AdminRoutes(h),
	}
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

func validBusiness() map[string]any {
	return map[string]any{
		"name":        "Barakah Grocers",
		"description": "Fresh halal meat",
		"category":    "Grocery",
		"contact":     map[string]any{"phone": "+44 20 7946 0000", "website": "https://barakah.example"},
		"address":     map[string]any{"city": "Leeds"},
	}
}

func TestCreateReviewAndList(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	ownerUser := e.fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleBusiness)
	owner := testutil.AsTestUser(ownerUser)

	rec := do(t, e.owner, &owner, http.MethodPost, "/", validBusiness())
	rec.AssertStatus(t, http.StatusCreated)
	var b models.Business
	rec.Decode(t, &b)
	if b.Status != "pending" || b.VerificationStatus != "pending" || b.OwnerID != ownerUser.ID || b.Category != "grocery" {
		t.Fatalf("created = %+v", b)
	}

	// Pending businesses are hidden from the public.
	do(t, e.public, nil, http.MethodGet, "/"+b.ID.Hex(), nil).AssertStatus(t, http.StatusNotFound)
	do(t, e.public, &owner, http.MethodGet, "/"+b.ID.Hex(), nil).AssertStatus(t, http.StatusOK)

	var mine paging.Page[models.Business]
	rec = do(t, e.owner, &owner, http.MethodGet, "/mine", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.Decode(t, &mine)
	if len(mine.Items) != 1 {
		t.Errorf("mine = %d items", len(mine.Items))
	}

	admin := testutil.AdminUser()
	do(t, e.admin, &owner, http.MethodPatch, "/"+b.ID.Hex(), map[string]string{"status": "approved"}).
		AssertStatus(t, http.StatusForbidden)
	rec = do(t, e.admin, &admin, http.MethodPatch, "/"+b.ID.Hex(), map[string]string{"status": "approved"})
	rec.AssertStatus(t, http.StatusOK)
	rec.Decode(t, &b)
	if b.Status != "approved" || b.VerificationStatus != "verified" || b.ReviewedAt == nil {
		t.Errorf("reviewed = %+v", b)
	}

	var page paging.Page[models.Business]
	rec = do(t, e.public, nil, http.MethodGet, "/?category=grocery&search=barakah", nil)
	rec.Decode(t, &page)
	if len(page.Items) != 1 || page.Items[0].ID != b.ID {
		t.Errorf("public list = %+v", page.Items)
	}
}

func TestCreate_RequiresBusinessRole(t *testing.T) {
	e := setup(t)
	user := testutil.PlainUser()
	do(t, e.owner, &user, http.MethodPost, "/", validBusiness()).AssertStatus(t, http.StatusForbidden)

	owner := testutil.BusinessUser()
	bad := validBusiness()
	bad["category"] = "casino"
	do(t, e.owner, &owner, http.MethodPost, "/", bad).AssertStatus(t, http.StatusBadRequest)
}

func TestProducts(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	ownerUser := e.fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleBusiness)
	owner := testutil.AsTestUser(ownerUser)
	b := e.fx.CreateBusiness(ctx, "Barakah", ownerUser.ID, "approved")

	stranger := testutil.BusinessUser()
	body := map[string]any{"name": "Lamb chops", "price": 12.5, "currency": "gbp", "category": "Meat"}
	do(t, e.owner, &stranger, http.MethodPost, "/"+b.ID.Hex()+"/products", body).AssertStatus(t, http.StatusForbidden)

	rec := do(t, e.owner, &owner, http.MethodPost, "/"+b.ID.Hex()+"/products", body)
	rec.AssertStatus(t, http.StatusCreated)
	var p models.Product
	rec.Decode(t, &p)
	if p.BusinessID != b.ID || p.Currency != "GBP" || !p.InStock || p.Status != "active" {
		t.Fatalf("product = %+v", p)
	}

	do(t, e.owner, &owner, http.MethodPost, "/"+b.ID.Hex()+"/products", map[string]any{"name": "x", "price": -1}).
		AssertStatus(t, http.StatusBadRequest)

	rec = do(t, e.owner, &owner, http.MethodPut, "/products/"+p.ID.Hex(),
		map[string]any{"name": "Lamb chops", "price": 14, "status": "inactive"})
	rec.AssertStatus(t, http.StatusOK)
	rec.Decode(t, &p)
	if p.Price != 14 || p.Status != "inactive" {
		t.Errorf("updated product = %+v", p)
	}

	// Inactive products are hidden from the public list but not the owner's.
	var page paging.Page[models.Product]
	do(t, e.public, nil, http.MethodGet, "/"+b.ID.Hex()+"/products", nil).Decode(t, &page)
	if len(page.Items) != 0 {
		t.Errorf("public products = %d", len(page.Items))
	}
	do(t, e.public, &owner, http.MethodGet, "/"+b.ID.Hex()+"/products", nil).Decode(t, &page)
	if len(page.Items) != 1 {
		t.Errorf("owner products = %d", len(page.Items))
	}

	do(t, e.owner, &stranger, http.MethodDelete, "/products/"+p.ID.Hex(), nil).AssertStatus(t, http.StatusForbidden)
	do(t, e.owner, &owner, http.MethodDelete, "/products/"+p.ID.Hex(), nil).AssertStatus(t, http.StatusNoContent)
	do(t, e.owner, &owner, http.MethodDelete, "/products/"+p.ID.Hex(), nil).AssertStatus(t, http.StatusNotFound)
}

func TestOffersVisibility(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	ownerUser := e.fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleBusiness)
	b := e.fx.CreateBusiness(ctx, "Barakah", ownerUser.ID, "approved")
	e.fx.CreateOffer(ctx, b.ID, ownerUser.ID, nil)
	e.fx.CreateOffer(ctx, b.ID, ownerUser.ID, func(o *models.Offer) { o.Status = "paused" })

	var page paging.Page[models.Offer]
	do(t, e.public, nil, http.MethodGet, "/"+b.ID.Hex()+"/offers", nil).Decode(t, &page)
	if len(page.Items) != 1 || page.Items[0].Status != "active" {
		t.Errorf("public offers = %+v", page.Items)
	}

	owner := testutil.AsTestUser(ownerUser)
	do(t, e.public, &owner, http.MethodGet, "/"+b.ID.Hex()+"/offers", nil).Decode(t, &page)
	if len(page.Items) != 2 {
		t.Errorf("owner offers = %d", len(page.Items))
	}
}

func TestDeleteCascades(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	ownerUser := e.fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleBusiness)
	b := e.fx.CreateBusiness(ctx, "Barakah", ownerUser.ID, "approved")
	e.fx.CreateProduct(ctx, b.ID, "Dates", 4)
	e.fx.CreateOffer(ctx, b.ID, ownerUser.ID, nil)
	e.fx.CreateCertification(ctx, b.ID, ownerUser.ID, "pending")

	admin := testutil.AdminUser()
	do(t, e.admin, &admin, http.MethodDelete, "/"+b.ID.Hex(), nil).AssertStatus(t, http.StatusNoContent)

	for _, coll := range []string{"businesses", "products", "offers", "halal_certifications"} {
		n, err := e.db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("%s still has %d documents", coll, n)
		}
	}
}
