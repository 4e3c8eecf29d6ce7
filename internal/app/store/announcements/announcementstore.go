// internal/app/store/announcements/announcementstore.go
package announcementstore

import (
	"context"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/review"
	"github.com/dalemusser/mosqueconnect/internal/app/system/search"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Sorts are the orderings announcement lists accept.
var Sorts = paging.Sorts{
	Default: "newest",
	Orders: map[string]bson.D{
		"newest": {{Key: "created_at", Value: -1}},
		"oldest": {{Key: "created_at", Value: 1}},
		"title":  {{Key: "title_ci", Value: 1}},
	},
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

// Create inserts an announcement. Platform-wide announcements (no
// business) are approved on creation and stamped as reviewed by their
// author; business announcements wait for review.
func (s *Store) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.TitleCI = text.Fold(a.Title)
	if a.Type == "" {
		a.Type = "general"
	}
	a.Review = models.Review{}
	if a.BusinessID == nil {
		a.Status = status.Approved
		author := a.AuthorID
		a.Review = models.Review{ReviewedBy: &author, ReviewedAt: &now}
	} else {
		a.Status = status.Pending
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) Review(ctx context.Context, id primitive.ObjectID, d review.Decision) (*models.Announcement, string, error) {
	from, err := review.Apply(ctx, s.c, id, review.Standard, d, nil)
	if err != nil {
		return nil, from, err
	}
	a, err := s.GetByID(ctx, id)
	return a, from, err
}

// Delete removes an announcement. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListFilter narrows announcement lists. LiveAt, when set, keeps only
// announcements without an expiry or expiring after it.
type ListFilter struct {
	Status     string
	Type       string
	BusinessID *primitive.ObjectID
	Search     string
	LiveAt     *time.Time
}

func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Announcement, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.BusinessID != nil {
		filter["business_id"] = *f.BusinessID
	}
	if f.LiveAt != nil {
		filter["$and"] = bson.A{bson.M{"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": *f.LiveAt}},
		}}}
	}
	search.Apply(filter, f.Search, "title_ci")
	return paging.Find[models.Announcement](ctx, s.c, filter, p, Sorts)
}
