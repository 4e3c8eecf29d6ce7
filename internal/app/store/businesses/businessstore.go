// internal/app/store/businesses/businessstore.go
package businessstore

import (
	"context"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/review"
	"github.com/dalemusser/mosqueconnect/internal/app/system/search"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/txn"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Sorts are the orderings business lists accept.
var Sorts = paging.Sorts{
	Default: "name",
	Orders: map[string]bson.D{
		"name":      {{Key: "name_ci", Value: 1}},
		"name_desc": {{Key: "name_ci", Value: -1}},
		"newest":    {{Key: "created_at", Value: -1}},
		"oldest":    {{Key: "created_at", Value: 1}},
	},
}

// verificationFor maps a review decision onto verification_status.
var verificationFor = map[string]string{
	status.Approved: status.Verified,
	status.Rejected: status.Rejected,
}

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("businesses")}
}

// Create inserts a pending, unverified business.
func (s *Store) Create(ctx context.Context, b models.Business) (models.Business, error) {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.NameCI = text.Fold(b.Name)
	b.Address.CityCI = text.Fold(b.Address.City)
	b.Status = status.Pending
	b.VerificationStatus = status.Pending
	b.Review = models.Review{}
	b.HalalCertified = false
	b.CertificationID = nil
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Business{}, err
	}
	return b, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error) {
	var b models.Business
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// FirstApprovedByOwner returns the owner's oldest approved business.
func (s *Store) FirstApprovedByOwner(ctx context.Context, owner primitive.ObjectID) (*models.Business, error) {
	var b models.Business
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	err := s.c.FindOne(ctx, bson.M{"owner_id": owner, "status": status.Approved}, opts).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// IDsByOwner returns the ids of every business owned by owner.
func (s *Store) IDsByOwner(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"owner_id": owner}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	ids := []primitive.ObjectID{}
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// Update replaces the editable listing fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, b models.Business) (*models.Business, error) {
	a := b.Address
	a.CityCI = text.Fold(a.City)
	set := bson.M{
		"name":        b.Name,
		"name_ci":     text.Fold(b.Name),
		"description": b.Description,
		"category":    b.Category,
		"contact":     b.Contact,
		"address":     a,
		"updated_at":  time.Now().UTC(),
	}
	var out models.Business
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Review applies an admin decision. Approval marks the business verified,
// rejection marks it rejected.
func (s *Store) Review(ctx context.Context, id primitive.ObjectID, d review.Decision) (*models.Business, string, error) {
	var extra bson.M
	if v, ok := verificationFor[d.Status]; ok {
		extra = bson.M{"verification_status": v}
	}
	from, err := review.Apply(ctx, s.c, id, review.Standard, d, extra)
	if err != nil {
		return nil, from, err
	}
	b, err := s.GetByID(ctx, id)
	return b, from, err
}

// Delete removes a business together with its products, offers,
// announcements and certifications. The writes share a transaction when
// the deployment supports one.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, log *zap.Logger) error {
	return txn.Run(ctx, s.db.Client(), log, func(ctx context.Context) error {
		res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return mongo.ErrNoDocuments
		}
		for _, coll := range []string{"products", "offers", "announcements", "halal_certifications"} {
			if _, err := s.db.Collection(coll).DeleteMany(ctx, bson.M{"business_id": id}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListFilter narrows business lists. Empty fields match everything.
type ListFilter struct {
	Status   string
	Category string
	City     string
	Search   string
	OwnerID  *primitive.ObjectID
}

// List returns a page of businesses and the unpaged total.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Business, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.City != "" {
		filter["address.city_ci"] = text.Fold(f.City)
	}
	if f.OwnerID != nil {
		filter["owner_id"] = *f.OwnerID
	}
	search.Apply(filter, f.Search, "name_ci")
	return paging.Find[models.Business](ctx, s.c, filter, p, Sorts)
}
