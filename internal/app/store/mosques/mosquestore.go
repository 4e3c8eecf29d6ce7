// internal/app/store/mosques/mosquestore.go
package mosquestore

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sorts are the orderings mosque lists accept.
var Sorts = paging.Sorts{
	Default: "name",
	Orders: map[string]bson.D{
		"name":      {{Key: "name_ci", Value: 1}},
		"name_desc": {{Key: "name_ci", Value: -1}},
		"newest":    {{Key: "created_at", Value: -1}},
		"oldest":    {{Key: "created_at", Value: 1}},
		"capacity":  {{Key: "capacity", Value: -1}},
	},
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mosques")}
}

// Collection exposes the underlying collection for transactional callers.
func (s *Store) Collection() *mongo.Collection { return s.c }

// Create inserts a new mosque in pending status.
func (s *Store) Create(ctx context.Context, m models.Mosque) (models.Mosque, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.NameCI = text.Fold(m.Name)
	m.Address.CityCI = text.Fold(m.Address.City)
	if m.Facilities == nil {
		m.Facilities = []string{}
	}
	m.Status = status.Pending
	m.Review = models.Review{}
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Mosque{}, err
	}
	return m, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Mosque, error) {
	var m models.Mosque
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByImam returns the most recently created mosque led by imamID.
func (s *Store) GetByImam(ctx context.Context, imamID primitive.ObjectID) (*models.Mosque, error) {
	var m models.Mosque
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if err := s.c.FindOne(ctx, bson.M{"imam_id": imamID}, opts).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Update replaces the editable profile fields. Status and review metadata
// are untouched.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, m models.Mosque) (*models.Mosque, error) {
	if m.Facilities == nil {
		m.Facilities = []string{}
	}
	set := bson.M{
		"name":         m.Name,
		"name_ci":      text.Fold(m.Name),
		"description":  m.Description,
		"address":      withCityCI(m.Address),
		"contact":      m.Contact,
		"facilities":   m.Facilities,
		"prayer_times": m.PrayerTimes,
		"capacity":     m.Capacity,
		"updated_at":   time.Now().UTC(),
	}
	upd := bson.M{"$set": set}
	if m.Location != nil {
		set["location"] = m.Location
	} else {
		upd["$unset"] = bson.M{"location": ""}
	}
	return s.findAndUpdate(ctx, id, upd)
}

// SetPrayerTimes replaces the prayer timetable.
func (s *Store) SetPrayerTimes(ctx context.Context, id primitive.ObjectID, pt models.PrayerTimes) (*models.Mosque, error) {
	return s.findAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"prayer_times": pt,
		"updated_at":   time.Now().UTC(),
	}})
}

func (s *Store) findAndUpdate(ctx context.Context, id primitive.ObjectID, upd bson.M) (*models.Mosque, error) {
	var m models.Mosque
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Review moves a mosque through the standard review workflow and returns
// the updated record.
func (s *Store) Review(ctx context.Context, id primitive.ObjectID, d review.Decision) (*models.Mosque, string, error) {
	from, err := review.Apply(ctx, s.c, id, review.Standard, d, nil)
	if err != nil {
		return nil, from, err
	}
	m, err := s.GetByID(ctx, id)
	return m, from, err
}

// Delete removes a mosque. Returns mongo.ErrNoDocuments if it did not exist.
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

// ListFilter narrows mosque lists. Empty fields match everything.
type ListFilter struct {
	Status   string
	City     string
	Facility string
	Search   string
	ImamID   *primitive.ObjectID
}

func (f ListFilter) bson() bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.City != "" {
		filter["address.city_ci"] = text.Fold(f.City)
	}
	if f.Facility != "" {
		filter["facilities"] = f.Facility
	}
	if f.ImamID != nil {
		filter["imam_id"] = *f.ImamID
	}
	search.Apply(filter, f.Search, "name_ci", "address.city_ci")
	return filter
}

// List returns a page of mosques and the unpaged total.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Mosque, int64, error) {
	return paging.Find[models.Mosque](ctx, s.c, f.bson(), p, Sorts)
}

func withCityCI(a models.Address) models.Address {
	a.CityCI = text.Fold(a.City)
	return a
}
