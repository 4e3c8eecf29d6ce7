package offerstore_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	offerstore "github.com/dalemusser/mosqueconnect/internal/app/store/offers"
	"github.com/dalemusser/mosqueconnect/internal/app/store/storeerr"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/review"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestCheckTerms(t *testing.T) {
	now := time.Now().UTC()
	base := models.Offer{DiscountType: models.DiscountPercentage, DiscountValue: 20, ValidFrom: now, ValidTo: now.Add(time.Hour)}

	tests := []struct {
		name   string
		mutate func(*models.Offer)
		ok     bool
	}{
		{"valid percentage", func(*models.Offer) {}, true},
		{"percentage of exactly 100", func(o *models.Offer) { o.DiscountValue = 100 }, true},
		{"percentage over 100", func(o *models.Offer) { o.DiscountValue = 150 }, false},
		{"zero percentage", func(o *models.Offer) { o.DiscountValue = 0 }, false},
		{"fixed positive", func(o *models.Offer) { o.DiscountType = models.DiscountFixed; o.DiscountValue = 5 }, true},
		{"fixed zero", func(o *models.Offer) { o.DiscountType = models.DiscountFixed; o.DiscountValue = 0 }, false},
		{"bogo ignores value", func(o *models.Offer) { o.DiscountType = models.DiscountBOGO; o.DiscountValue = 0 }, true},
		{"unknown type", func(o *models.Offer) { o.DiscountType = "cashback" }, false},
		{"window reversed", func(o *models.Offer) { o.ValidTo = o.ValidFrom.Add(-time.Minute) }, false},
		{"empty window", func(o *models.Offer) { o.ValidTo = o.ValidFrom }, false},
		{"zero usage limit", func(o *models.Offer) { o.UsageLimit = intPtr(0) }, false},
		{"negative max discount", func(o *models.Offer) { o.MaxDiscount = floatPtr(-1) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.mutate(&o)
			err := offerstore.CheckTerms(o)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !storeerr.IsInvalid(err) {
				t.Errorf("expected invalid error, got %v", err)
			}
		})
	}
}

func TestStore_Create_InitialStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := offerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	day := 24 * time.Hour
	tests := []struct {
		name     string
		from, to time.Time
		want     string
	}{
		{"window contains now", now.Add(-day), now.Add(day), "active"},
		{"future window", now.Add(day), now.Add(2 * day), "draft"},
		{"past window", now.Add(-2 * day), now.Add(-day), "expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := store.Create(ctx, models.Offer{
				BusinessID:    primitive.NewObjectID(),
				Title:         "Eid Sale",
				Code:          " eid 20 ",
				DiscountType:  models.DiscountPercentage,
				DiscountValue: 20,
				ValidFrom:     tt.from,
				ValidTo:       tt.to,
				Status:        "paused",
				UsedCount:     9,
			})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if o.Status != tt.want {
				t.Errorf("status = %q, want %q", o.Status, tt.want)
			}
			if o.UsedCount != 0 || o.Code != "EID20" {
				t.Errorf("used_count=%d code=%q", o.UsedCount, o.Code)
			}
		})
	}
}

func TestStore_Redeem_RespectsUsageLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := offerstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	o := fx.CreateOffer(ctx, primitive.NewObjectID(), primitive.NewObjectID(), func(o *models.Offer) {
		o.UsageLimit = intPtr(3)
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, limited := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Redeem(ctx, o.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, offerstore.ErrUsageLimitReached):
				limited++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 3 || limited != 7 {
		t.Errorf("succeeded=%d limited=%d, want 3/7", succeeded, limited)
	}
	got, _ := store.GetByID(ctx, o.ID)
	if got.UsedCount != 3 {
		t.Errorf("used_count = %d, want 3", got.UsedCount)
	}
}

func TestStore_Redeem_NotActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := offerstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	paused := fx.CreateOffer(ctx, primitive.NewObjectID(), primitive.NewObjectID(), func(o *models.Offer) { o.Status = "paused" })
	if _, err := store.Redeem(ctx, paused.ID); !errors.Is(err, offerstore.ErrNotRedeemable) {
		t.Errorf("paused redeem err = %v", err)
	}

	// Still marked active but the window has closed; the sweep has not run yet.
	stale := fx.CreateOffer(ctx, primitive.NewObjectID(), primitive.NewObjectID(), func(o *models.Offer) {
		o.ValidFrom = time.Now().Add(-48 * time.Hour)
		o.ValidTo = time.Now().Add(-time.Hour)
	})
	if _, err := store.Redeem(ctx, stale.ID); !errors.Is(err, offerstore.ErrNotRedeemable) {
		t.Errorf("stale redeem err = %v", err)
	}

	unlimited := fx.CreateOffer(ctx, primitive.NewObjectID(), primitive.NewObjectID(), nil)
	got, err := store.Redeem(ctx, unlimited.ID)
	if err != nil || got.UsedCount != 1 {
		t.Errorf("unlimited redeem = %v, %v", got, err)
	}
}

func TestStore_PauseResume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := offerstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	o := fx.CreateOffer(ctx, primitive.NewObjectID(), primitive.NewObjectID(), nil)

	got, err := store.Pause(ctx, o.ID)
	if err != nil || got.Status != "paused" {
		t.Fatalf("Pause = %v, %v", got, err)
	}
	if _, err := store.Pause(ctx, o.ID); !errors.Is(err, review.ErrInvalidTransition) {
		t.Errorf("double pause err = %v", err)
	}
	got, err = store.Resume(ctx, o.ID)
	if err != nil || got.Status != "active" {
		t.Fatalf("Resume = %v, %v", got, err)
	}

	future := fx.CreateOffer(ctx, primitive.NewObjectID(), primitive.NewObjectID(), func(o *models.Offer) {
		o.Status = "paused"
		o.ValidFrom = time.Now().Add(24 * time.Hour)
		o.ValidTo = time.Now().Add(48 * time.Hour)
	})
	got, err = store.Resume(ctx, future.ID)
	if err != nil || got.Status != "draft" {
		t.Errorf("resume future = %v, %v", got, err)
	}
}

func TestStore_Sweep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := offerstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	biz, by := primitive.NewObjectID(), primitive.NewObjectID()
	opened := fx.CreateOffer(ctx, biz, by, func(o *models.Offer) { o.Status = "draft" })
	notYet := fx.CreateOffer(ctx, biz, by, func(o *models.Offer) {
		o.Status = "draft"
		o.ValidFrom = now.Add(time.Hour)
	})
	ended := fx.CreateOffer(ctx, biz, by, func(o *models.Offer) {
		o.ValidFrom = now.Add(-48 * time.Hour)
		o.ValidTo = now.Add(-time.Minute)
	})
	pausedEnded := fx.CreateOffer(ctx, biz, by, func(o *models.Offer) {
		o.Status = "paused"
		o.ValidFrom = now.Add(-48 * time.Hour)
		o.ValidTo = now.Add(-time.Minute)
	})
	paused := fx.CreateOffer(ctx, biz, by, func(o *models.Offer) { o.Status = "paused" })

	activated, expired, err := store.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if activated != 1 || expired != 2 {
		t.Errorf("activated=%d expired=%d, want 1/2", activated, expired)
	}

	want := map[primitive.ObjectID]string{
		opened.ID:      "active",
		notYet.ID:      "draft",
		ended.ID:       "expired",
		pausedEnded.ID: "expired",
		paused.ID:      "paused",
	}
	for id, st := range want {
		got, _ := store.GetByID(ctx, id)
		if got.Status != st {
			t.Errorf("%s status = %q, want %q", id.Hex(), got.Status, st)
		}
	}

	// A second sweep is a no-op.
	activated, expired, _ = store.Sweep(ctx, now)
	if activated != 0 || expired != 0 {
		t.Errorf("second sweep changed %d/%d", activated, expired)
	}
}

func TestStore_UpdateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := offerstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	biz := primitive.NewObjectID()
	o := fx.CreateOffer(ctx, biz, primitive.NewObjectID(), func(o *models.Offer) {
		o.UsedCount = 5
		o.UsageLimit = intPtr(10)
	})
	fx.CreateOffer(ctx, biz, primitive.NewObjectID(), func(o *models.Offer) { o.Title = "Ramadan Special" })
	fx.CreateOffer(ctx, primitive.NewObjectID(), primitive.NewObjectID(), nil)

	o.Title = "Jumu'ah Deal"
	o.UsageLimit = intPtr(4)
	if _, err := store.Update(ctx, o.ID, o); !storeerr.IsInvalid(err) {
		t.Errorf("limit below used_count err = %v", err)
	}
	o.UsageLimit = intPtr(20)
	o.MaxDiscount = floatPtr(15)
	got, err := store.Update(ctx, o.ID, o)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Jumu'ah Deal" || got.UsageLimit == nil || *got.UsageLimit != 20 || got.MaxDiscount == nil || got.Status != "active" {
		t.Errorf("update result: %+v", got)
	}

	items, total, err := store.List(ctx, offerstore.ListFilter{BusinessIDs: []primitive.ObjectID{biz}}, paging.Params{Page: 1, Limit: 1, Sort: "title"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(items) != 1 || items[0].Title != "Jumu'ah Deal" {
		t.Errorf("list = %+v total %d", items, total)
	}

	_, total, _ = store.List(ctx, offerstore.ListFilter{BusinessIDs: []primitive.ObjectID{}}, paging.Params{Page: 1, Limit: 20, Sort: "newest"})
	if total != 0 {
		t.Errorf("empty business list total = %d", total)
	}

	n, err := store.CountActive(ctx, []primitive.ObjectID{biz})
	if err != nil || n != 2 {
		t.Errorf("CountActive = %d, %v", n, err)
	}
}

func TestStore_Update_RecomputesStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := offerstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	past := func(o *models.Offer) {
		o.ValidFrom = now.Add(-48 * time.Hour)
		o.ValidTo = now.Add(-time.Hour)
		o.Status = "expired"
	}

	tests := []struct {
		name     string
		stored   func(*models.Offer)
		from, to time.Time
		want     string
	}{
		{"expired given an open window", past, now.Add(-time.Hour), now.Add(7 * 24 * time.Hour), "active"},
		{"expired given a future window", past, now.Add(24 * time.Hour), now.Add(48 * time.Hour), "draft"},
		{"expired kept when window still over", past, now.Add(-72 * time.Hour), now.Add(-2 * time.Hour), "expired"},
		{"active pushed into the future", nil, now.Add(24 * time.Hour), now.Add(48 * time.Hour), "draft"},
		{"active window shortened into the past", nil, now.Add(-48 * time.Hour), now.Add(-time.Minute), "expired"},
		{"paused stays paused", func(o *models.Offer) { o.Status = "paused" }, now.Add(-time.Hour), now.Add(24 * time.Hour), "paused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := fx.CreateOffer(ctx, primitive.NewObjectID(), primitive.NewObjectID(), tt.stored)
			o.ValidFrom, o.ValidTo = tt.from, tt.to

			got, err := store.Update(ctx, o.ID, o)
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if got.Status != tt.want {
				t.Errorf("status = %q, want %q", got.Status, tt.want)
			}
			stored, err := store.GetByID(ctx, o.ID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if stored.Status != tt.want {
				t.Errorf("stored status = %q, want %q", stored.Status, tt.want)
			}
		})
	}
}

func TestStore_Update_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := offerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	o := models.Offer{Title: "Gone", DiscountType: models.DiscountPercentage, DiscountValue: 10, ValidFrom: now, ValidTo: now.Add(time.Hour)}
	if _, err := store.Update(ctx, primitive.NewObjectID(), o); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("err = %v, want ErrNoDocuments", err)
	}
}
