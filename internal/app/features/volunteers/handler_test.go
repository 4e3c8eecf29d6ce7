package volunteers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/mosqueconnect/internal/app/features/shared"
	"github.com/dalemusser/mosqueconnect/internal/app/features/volunteers"
	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

type env struct {
	db                 *mongo.Database
	fx                 *testutil.Fixtures
	public, imam, admn chi.Router
	imamUser           models.User
	mosque             models.Mosque
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := volunteers.NewHandler(shared.Deps{DB: db})
	fx := testutil.NewFixtures(t, db)
	ctx := context.Background()
	imam := fx.CreateUser(ctx, "Imam Yusuf", "yusuf@example.com", models.RoleImam)
	m := fx.CreateMosque(ctx, "Masjid An-Nur", imam.ID, "approved")
	return env{
		db: db, fx: fx,
		public: volunteers.Routes(h), imam: volunteers.ImamRoutes(h), admn: volunteers.AdminRoutes(h),
		imamUser: imam, mosque: m,
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

func TestProfile_UpsertFlagsVolunteer(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	u := e.fx.CreateUser(ctx, "Aisha", "aisha@example.com", models.RoleUser)
	tu := testutil.AsTestUser(u)

	do(t, e.public, &tu, http.MethodGet, "/profile", nil).AssertStatus(t, http.StatusNotFound)

	body := map[string]any{"bio": "<b>Quran tutor</b>", "skills": []string{"Teaching", "teaching"}, "languages": []string{"arabic"}}
	rec := do(t, e.public, &tu, http.MethodPut, "/profile", body)
	rec.AssertStatus(t, http.StatusOK)
	var p models.VolunteerProfile
	rec.Decode(t, &p)
	if p.Bio != "Quran tutor" || p.UserID != u.ID {
		t.Errorf("profile = %+v", p)
	}

	body["experience"] = "five years"
	do(t, e.public, &tu, http.MethodPut, "/profile", body).AssertStatus(t, http.StatusOK)
	do(t, e.public, &tu, http.MethodGet, "/profile", nil).AssertContains(t, "five years")

	got, err := userstore.New(e.db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.IsVolunteer {
		t.Error("user not flagged as volunteer")
	}

	do(t, e.public, nil, http.MethodGet, "/profile", nil).AssertStatus(t, http.StatusUnauthorized)
}

func TestApply(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	u := testutil.PlainUser()

	rec := do(t, e.public, &u, http.MethodPost, "/applications", map[string]any{
		"mosque_id": e.mosque.ID.Hex(),
		"skills":    []string{"cooking"},
	})
	rec.AssertStatus(t, http.StatusCreated)
	var a models.VolunteerApplication
	rec.Decode(t, &a)
	if a.Status != "pending" || a.MosqueID != e.mosque.ID {
		t.Errorf("application = %+v", a)
	}

	// Second pending application to the same mosque.
	do(t, e.public, &u, http.MethodPost, "/applications", map[string]any{"mosque_id": e.mosque.ID.Hex()}).
		AssertStatus(t, http.StatusConflict)

	var page paging.Page[models.VolunteerApplication]
	rec = do(t, e.public, &u, http.MethodGet, "/applications", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.Decode(t, &page)
	if len(page.Items) != 1 {
		t.Errorf("items = %d, want 1", len(page.Items))
	}

	pending := e.fx.CreateMosque(ctx, "New Masjid", testutil.ImamUser().OID(), "pending")
	do(t, e.public, &u, http.MethodPost, "/applications", map[string]any{"mosque_id": pending.ID.Hex()}).
		AssertStatus(t, http.StatusNotFound)

	closedNeed := e.fx.CreateNeed(ctx, e.mosque.ID, e.imamUser.ID, "Iftar servers")
	other := testutil.PlainUser()
	do(t, e.imam, ptr(testutil.AsTestUser(e.imamUser)), http.MethodPatch, "/needs/"+closedNeed.ID.Hex()+"/status",
		map[string]any{"status": "closed"}).AssertStatus(t, http.StatusOK)
	do(t, e.public, &other, http.MethodPost, "/applications", map[string]any{
		"mosque_id": e.mosque.ID.Hex(), "need_id": closedNeed.ID.Hex(),
	}).AssertStatus(t, http.StatusConflict)

	do(t, e.public, &other, http.MethodPost, "/applications", map[string]any{"mosque_id": "nope"}).
		AssertStatus(t, http.StatusBadRequest)
}

func TestReviewApplication_ImamOfMosqueOnly(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	a := e.fx.CreateApplication(ctx, testutil.PlainUser().OID(), e.mosque.ID)
	path := "/applications/" + a.ID.Hex()

	stranger := e.fx.CreateUser(ctx, "Other Imam", "other@example.com", models.RoleImam)
	e.fx.CreateMosque(ctx, "Other Masjid", stranger.ID, "approved")
	st := testutil.AsTestUser(stranger)
	do(t, e.imam, &st, http.MethodPatch, path, map[string]any{"status": "approved"}).
		AssertStatus(t, http.StatusForbidden)

	// The other imam's list does not include it.
	var page paging.Page[models.VolunteerApplication]
	rec := do(t, e.imam, &st, http.MethodGet, "/applications", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.Decode(t, &page)
	if len(page.Items) != 0 {
		t.Errorf("stranger sees %d applications", len(page.Items))
	}

	owner := testutil.AsTestUser(e.imamUser)
	rec = do(t, e.imam, &owner, http.MethodGet, "/applications?status=pending", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.Decode(t, &page)
	if len(page.Items) != 1 {
		t.Errorf("imam sees %d applications, want 1", len(page.Items))
	}

	rec = do(t, e.imam, &owner, http.MethodPatch, path, map[string]any{"status": "approved", "notes": "welcome"})
	rec.AssertStatus(t, http.StatusOK)
	var out models.VolunteerApplication
	rec.Decode(t, &out)
	if out.Status != "approved" || out.ReviewNotes != "welcome" {
		t.Errorf("reviewed = %+v", out)
	}

	// Terminal.
	do(t, e.imam, &owner, http.MethodPatch, path, map[string]any{"status": "rejected"}).
		AssertStatus(t, http.StatusConflict)

	user := testutil.PlainUser()
	do(t, e.imam, &user, http.MethodPatch, path, map[string]any{"status": "approved"}).
		AssertStatus(t, http.StatusForbidden)
}

func TestNeeds_Lifecycle(t *testing.T) {
	e := setup(t)
	imam := testutil.AsTestUser(e.imamUser)

	rec := do(t, e.imam, &imam, http.MethodPost, "/needs", map[string]any{
		"title":             "Ramadan iftar volunteers",
		"skills_required":   []string{"Cooking"},
		"volunteers_needed": 10,
		"urgency":           "high",
	})
	rec.AssertStatus(t, http.StatusCreated)
	var n models.VolunteerNeed
	rec.Decode(t, &n)
	if n.MosqueID != e.mosque.ID || n.Status != "open" || n.Urgency != "high" {
		t.Errorf("need = %+v", n)
	}

	rec = do(t, e.public, nil, http.MethodGet, "/needs?skill=cooking", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Ramadan iftar volunteers")

	path := "/needs/" + n.ID.Hex()
	do(t, e.imam, &imam, http.MethodPut, path, map[string]any{"title": "Iftar helpers", "urgency": "low"}).
		AssertStatus(t, http.StatusOK)

	tests := []struct {
		to   string
		want int
	}{
		{"filled", http.StatusOK},
		{"open", http.StatusOK},
		{"closed", http.StatusOK},
		{"open", http.StatusConflict},
		{"bogus", http.StatusBadRequest},
	}
	for _, tt := range tests {
		do(t, e.imam, &imam, http.MethodPatch, path+"/status", map[string]any{"status": tt.to}).AssertStatus(t, tt.want)
	}

	var page paging.Page[models.VolunteerNeed]
	rec = do(t, e.public, nil, http.MethodGet, "/needs", nil)
	rec.Decode(t, &page)
	if len(page.Items) != 0 {
		t.Errorf("closed need still listed: %+v", page.Items)
	}

	rec = do(t, e.imam, &imam, http.MethodGet, "/needs?status=closed", nil)
	rec.Decode(t, &page)
	if len(page.Items) != 1 {
		t.Errorf("imam sees %d closed needs, want 1", len(page.Items))
	}
}

func TestNeeds_Ownership(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	n := e.fx.CreateNeed(ctx, e.mosque.ID, e.imamUser.ID, "Cleaning")

	other := testutil.ImamUser()
	do(t, e.imam, &other, http.MethodPut, "/needs/"+n.ID.Hex(), map[string]any{"title": "Hijack"}).
		AssertStatus(t, http.StatusForbidden)
	// An imam with no mosque cannot post.
	do(t, e.imam, &other, http.MethodPost, "/needs", map[string]any{"title": "Anything"}).
		AssertStatus(t, http.StatusConflict)

	admin := testutil.AdminUser()
	do(t, e.imam, &admin, http.MethodPost, "/needs", map[string]any{"title": "Parking"}).
		AssertStatus(t, http.StatusBadRequest)
	do(t, e.imam, &admin, http.MethodPost, "/needs", map[string]any{"title": "Parking", "mosque_id": e.mosque.ID.Hex()}).
		AssertStatus(t, http.StatusCreated)

	imam := testutil.AsTestUser(e.imamUser)
	do(t, e.imam, &imam, http.MethodPost, "/needs", map[string]any{
		"title": "Backwards", "start_date": "2026-03-10T00:00:00Z", "end_date": "2026-03-01T00:00:00Z",
	}).AssertStatus(t, http.StatusBadRequest)

	user := testutil.PlainUser()
	do(t, e.imam, &user, http.MethodPost, "/needs", map[string]any{"title": "x"}).AssertStatus(t, http.StatusForbidden)
}

func TestOffers_AdminReview(t *testing.T) {
	e := setup(t)
	u := testutil.PlainUser()

	rec := do(t, e.public, &u, http.MethodPost, "/offers", map[string]any{
		"title":  "Weekend tutoring",
		"skills": []string{"teaching"},
	})
	rec.AssertStatus(t, http.StatusCreated)
	var o models.VolunteerOffer
	rec.Decode(t, &o)

	do(t, e.public, &u, http.MethodGet, "/offers", nil).AssertContains(t, "Weekend tutoring")

	do(t, e.admn, &u, http.MethodPatch, "/offers/"+o.ID.Hex(), map[string]any{"status": "approved"}).
		AssertStatus(t, http.StatusForbidden)

	admin := testutil.AdminUser()
	rec = do(t, e.admn, &admin, http.MethodGet, "/offers?status=pending", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, o.ID.Hex())

	rec = do(t, e.admn, &admin, http.MethodPatch, "/offers/"+o.ID.Hex(), map[string]any{"status": "approved"})
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"approved"`)

	do(t, e.admn, &admin, http.MethodPatch, "/offers/"+o.ID.Hex(), map[string]any{"status": "pending"}).
		AssertStatus(t, http.StatusConflict)
}

func ptr[T any](v T) *T { return &v }
