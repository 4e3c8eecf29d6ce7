// internal/app/store/products/productstore.go
package productstore

import (
	"context"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/search"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCurrency is stored when a product is created without one.
const DefaultCurrency = "USD"

// Sorts are the orderings product lists accept.
var Sorts = paging.Sorts{
	Default: "name",
	Orders: map[string]bson.D{
		"name":       {{Key: "name_ci", Value: 1}},
		"name_desc":  {{Key: "name_ci", Value: -1}},
		"price":      {{Key: "price", Value: 1}},
		"price_desc": {{Key: "price", Value: -1}},
		"newest":     {{Key: "created_at", Value: -1}},
	},
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("products")}
}

// Create inserts a product for p.BusinessID.
func (s *Store) Create(ctx context.Context, p models.Product) (models.Product, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Status == "" {
		p.Status = status.Active
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the editable fields. BusinessID never changes.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Product) (*models.Product, error) {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Status == "" {
		p.Status = status.Active
	}
	set := bson.M{
		"name":            p.Name,
		"name_ci":         text.Fold(p.Name),
		"description":     p.Description,
		"price":           p.Price,
		"currency":        p.Currency,
		"category":        p.Category,
		"halal_certified": p.HalalCertified,
		"in_stock":        p.InStock,
		"status":          p.Status,
		"updated_at":      time.Now().UTC(),
	}
	var out models.Product
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a product. Returns mongo.ErrNoDocuments if it did not exist.
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

// CountByBusiness returns how many products each of ids has.
func (s *Store) CountByBusiness(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	out := make(map[primitive.ObjectID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"business_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{"_id": "$business_id", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int64              `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.N
	}
	return out, cur.Err()
}

// ListFilter narrows product lists.
type ListFilter struct {
	BusinessID primitive.ObjectID
	Status     string
	Category   string
	Search     string
}

// List returns a page of one business's products and the unpaged total.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Product, int64, error) {
	filter := bson.M{"business_id": f.BusinessID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	search.Apply(filter, f.Search, "name_ci")
	return paging.Find[models.Product](ctx, s.c, filter, p, Sorts)
}
