package announcementstore_test

import (
	"errors"
	"testing"
	"time"

	announcementstore "github.com/dalemusser/mosqueconnect/internal/app/store/announcements"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/review"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_StatusByOrigin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := announcementstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	platform, err := store.Create(ctx, models.Announcement{Title: "Eid prayers", Content: "<p>Times</p>", AuthorID: admin})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if platform.Status != "approved" || platform.ReviewedBy == nil || *platform.ReviewedBy != admin || platform.Type != "general" {
		t.Errorf("platform announcement = %+v", platform)
	}

	biz := primitive.NewObjectID()
	own, err := store.Create(ctx, models.Announcement{Title: "Grand opening", AuthorID: primitive.NewObjectID(), BusinessID: &biz, Type: "event"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if own.Status != "pending" || own.ReviewedBy != nil {
		t.Errorf("business announcement = %+v", own)
	}

	got, _, err := store.Review(ctx, own.ID, review.Decision{Status: "approved", Actor: admin})
	if err != nil || got.Status != "approved" {
		t.Errorf("Review = %v, %v", got, err)
	}
}

func TestStore_List_LiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := announcementstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	fx.CreateAnnouncement(ctx, author, nil, "Forever", "approved")
	fx.CreateAnnouncement(ctx, author, nil, "Waiting", "pending")
	expired, _ := store.Create(ctx, models.Announcement{Title: "Yesterday", AuthorID: author})
	future, _ := store.Create(ctx, models.Announcement{Title: "Tomorrow", AuthorID: author})

	past := time.Now().Add(-time.Hour)
	later := time.Now().Add(time.Hour)
	setExpiry(t, db, expired.ID, past)
	setExpiry(t, db, future.ID, later)

	now := time.Now().UTC()
	items, total, err := store.List(ctx, announcementstore.ListFilter{Status: "approved", LiveAt: &now}, paging.Params{Page: 1, Limit: 20, Sort: "title"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || items[0].Title != "Forever" || items[1].Title != "Tomorrow" {
		t.Errorf("live = %+v (total %d)", items, total)
	}

	if err := store.Delete(ctx, expired.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, expired.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second delete err = %v", err)
	}
}

func setExpiry(t *testing.T, db *mongo.Database, id primitive.ObjectID, at time.Time) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := db.Collection("announcements").UpdateByID(ctx, id, map[string]any{"$set": map[string]any{"expires_at": at}}); err != nil {
		t.Fatal(err)
	}
}
