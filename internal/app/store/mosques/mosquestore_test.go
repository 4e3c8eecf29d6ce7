package mosquestore_test

import (
	"errors"
	"testing"

	mosquestore "github.com/dalemusser/mosqueconnect/internal/app/store/mosques"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/review"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateGetRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mosquestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	imam := primitive.NewObjectID()
	in := models.Mosque{
		Name:        "East London Mosque",
		Description: "Friday khutbah in English.",
		Address:     models.Address{Street: "82-92 Whitechapel Rd", City: "London", Country: "UK"},
		Location:    &models.Location{Lat: 51.5175, Lng: -0.0653},
		Facilities:  []string{models.FacilityParking, models.FacilityWomenSection},
		PrayerTimes: models.PrayerTimes{Fajr: "05:10", Jummah: "13:15"},
		Capacity:    7000,
		ImamID:      imam,
		Status:      "approved", // ignored
	}
	created, err := store.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != "pending" {
		t.Errorf("status = %q, want pending", created.Status)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != in.Name || got.Address.City != "London" || got.Capacity != 7000 ||
		got.PrayerTimes.Jummah != "13:15" || len(got.Facilities) != 2 || got.Location == nil {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.ImamID != imam {
		t.Errorf("imam_id = %v", got.ImamID)
	}

	byImam, err := store.GetByImam(ctx, imam)
	if err != nil || byImam.ID != created.ID {
		t.Errorf("GetByImam = %v, %v", byImam, err)
	}
}

func TestStore_Update_KeepsStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mosquestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fx.CreateMosque(ctx, "Old Name", primitive.NewObjectID(), "approved")
	m.Name = "New Name"
	m.Location = nil
	got, err := store.Update(ctx, m.ID, m)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "New Name" || got.Status != "approved" {
		t.Errorf("got %+v", got)
	}

	pt := models.PrayerTimes{Fajr: "04:45", Isha: "21:30"}
	got, err = store.SetPrayerTimes(ctx, m.ID, pt)
	if err != nil {
		t.Fatalf("SetPrayerTimes: %v", err)
	}
	if got.PrayerTimes != pt {
		t.Errorf("prayer times = %+v", got.PrayerTimes)
	}

	if _, err := store.SetPrayerTimes(ctx, primitive.NewObjectID(), pt); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("missing mosque err = %v", err)
	}
}

func TestStore_Review(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mosquestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fx.CreateMosque(ctx, "Masjid", primitive.NewObjectID(), "pending")
	admin := primitive.NewObjectID()

	got, from, err := store.Review(ctx, m.ID, review.Decision{Status: "approved", Actor: admin, Notes: "looks good"})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if from != "pending" || got.Status != "approved" {
		t.Errorf("from=%q status=%q", from, got.Status)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != admin || got.ReviewedAt == nil || got.ReviewNotes != "looks good" {
		t.Errorf("review stamp missing: %+v", got.Review)
	}

	if _, _, err := store.Review(ctx, m.ID, review.Decision{Status: "pending", Actor: admin}); !errors.Is(err, review.ErrInvalidTransition) {
		t.Errorf("approved→pending err = %v", err)
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mosquestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"Al-Noor", "Baitul Futuh", "Central Jamia", "Darul Uloom"} {
		fx.CreateMosque(ctx, name, primitive.NewObjectID(), "approved")
	}
	pending := fx.CreateMosque(ctx, "Pending Masjid", primitive.NewObjectID(), "pending")

	items, total, err := store.List(ctx, mosquestore.ListFilter{Status: "approved"}, paging.Params{Page: 2, Limit: 3, Sort: "name"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 4 || len(items) != 1 || items[0].Name != "Darul Uloom" {
		t.Errorf("page 2 = %d items, total %d", len(items), total)
	}

	_, total, _ = store.List(ctx, mosquestore.ListFilter{Status: "approved", Search: "jamia"}, paging.Params{Page: 1, Limit: 20, Sort: "name"})
	if total != 1 {
		t.Errorf("search total = %d", total)
	}
	_, total, _ = store.List(ctx, mosquestore.ListFilter{City: "test city", Facility: models.FacilityParking}, paging.Params{Page: 1, Limit: 20, Sort: "name"})
	if total != 5 {
		t.Errorf("city+facility total = %d", total)
	}

	if err := store.Delete(ctx, pending.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, pending.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second delete err = %v", err)
	}
}
