package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/mosqueconnect/internal/app/store/users"
	"github.com/dalemusser/mosqueconnect/internal/app/system/indexes"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "  Yusuf   Ali ",
		Email:    "Yusuf@Example.COM",
		Role:     "Imam",
	}, "long-enough-pw")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.FullName != "Yusuf Ali" || created.Email != "yusuf@example.com" || created.Role != models.RoleImam {
		t.Errorf("normalization: %+v", created)
	}
	if created.Status != "active" {
		t.Errorf("expected status 'active', got %q", created.Status)
	}
	if created.PasswordHash == "" || created.PasswordHash == "long-enough-pw" {
		t.Error("password not hashed")
	}

	got, err := store.GetByEmail(ctx, "YUSUF@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if !userstore.CheckPassword(got, "long-enough-pw") {
		t.Error("CheckPassword rejected the right password")
	}
	if userstore.CheckPassword(got, "wrong-password") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestStore_Create_Rejects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{FullName: "X", Email: "x@example.com", Role: "superuser"}, "long-enough-pw"); err == nil {
		t.Error("expected bad role error")
	}
	if _, err := store.Create(ctx, models.User{FullName: "X", Email: "x@example.com"}, "short"); !errors.Is(err, userstore.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{FullName: "A", Email: "dup@example.com"}, "long-enough-pw"); err != nil {
		t.Fatal(err)
	}
	_, err := store.Create(ctx, models.User{FullName: "B", Email: "DUP@example.com"}, "long-enough-pw")
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "Amina Khan", "amina@example.com", models.RoleBusiness)
	fx.CreateUser(ctx, "Bilal Ahmed", "bilal@example.com", models.RoleImam)
	fx.CreateUser(ctx, "Bushra Malik", "bushra@example.com", models.RoleImam)
	fx.CreateDisabledUser(ctx, "Dawud Noor", "dawud@example.com")

	items, total, err := store.List(ctx, userstore.ListFilter{Role: models.RoleImam}, paging.Params{Page: 1, Limit: 1, Sort: "name"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(items) != 1 || items[0].FullName != "Bilal Ahmed" {
		t.Errorf("imam page = %d/%d %+v", len(items), total, items)
	}

	_, total, _ = store.List(ctx, userstore.ListFilter{Search: "bu"}, paging.Params{Page: 1, Limit: 20, Sort: "name"})
	if total != 1 {
		t.Errorf("search total = %d, want 1", total)
	}

	_, total, _ = store.List(ctx, userstore.ListFilter{Status: "disabled"}, paging.Params{Page: 1, Limit: 20, Sort: "name"})
	if total != 1 {
		t.Errorf("disabled total = %d, want 1", total)
	}
}

func TestStore_UpdateAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Hamza", "hamza@example.com", models.RoleUser)

	role, st := "business", "disabled"
	got, err := store.UpdateAdmin(ctx, u.ID, userstore.AdminUpdate{Role: &role, Status: &st})
	if err != nil {
		t.Fatalf("UpdateAdmin: %v", err)
	}
	if got.Role != "business" || got.Status != "disabled" {
		t.Errorf("got %+v", got)
	}

	bad := "root"
	if _, err := store.UpdateAdmin(ctx, u.ID, userstore.AdminUpdate{Role: &bad}); err == nil {
		t.Error("expected bad role error")
	}
	if _, err := store.UpdateAdmin(ctx, primitive.NewObjectID(), userstore.AdminUpdate{Role: &role}); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("missing user err = %v", err)
	}
}

func TestStore_PromoteToAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	ok, err := store.PromoteToAdmin(ctx, "OWNER@example.com")
	if err != nil || !ok {
		t.Fatalf("PromoteToAdmin = %v, %v", ok, err)
	}
	u, _ := store.GetByEmail(ctx, "owner@example.com")
	if u.Role != models.RoleAdmin {
		t.Errorf("role = %q", u.Role)
	}
	if ok, _ := store.PromoteToAdmin(ctx, "nobody@example.com"); ok {
		t.Error("promoted a missing user")
	}
}

func TestFetcher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	imam := fx.CreateUser(ctx, "Imam Musa", "musa@example.com", models.RoleImam)
	m := fx.CreateMosque(ctx, "Masjid Musa", imam.ID, "approved")
	disabled := fx.CreateDisabledUser(ctx, "Gone", "gone@example.com")

	f := userstore.NewFetcher(db)
	su := f.FetchUser(ctx, imam.ID.Hex())
	if su == nil || su.Role != models.RoleImam || su.MosqueID != m.ID.Hex() {
		t.Fatalf("FetchUser = %+v", su)
	}
	if f.FetchUser(ctx, disabled.ID.Hex()) != nil {
		t.Error("disabled user returned")
	}
	if f.FetchUser(ctx, "nope") != nil {
		t.Error("bad id returned a user")
	}
}
