// internal/app/store/offers/offerstore.go
package offerstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/store/storeerr"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
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

var (
	// ErrUsageLimitReached is returned by Redeem once used_count has hit usage_limit.
	ErrUsageLimitReached = storeerr.NewConflict("offer usage limit reached")
	// ErrNotRedeemable is returned by Redeem for offers that are not active
	// or are outside their validity window.
	ErrNotRedeemable = storeerr.NewConflict("offer is not currently active")
	// ErrEditConflict is returned by Update when the offer's status or usage
	// changed while the edit was being applied.
	ErrEditConflict = storeerr.NewConflict("offer changed while editing; reload and retry")
)

// Sorts are the orderings offer lists accept.
var Sorts = paging.Sorts{
	Default: "newest",
	Orders: map[string]bson.D{
		"newest":   {{Key: "created_at", Value: -1}},
		"oldest":   {{Key: "created_at", Value: 1}},
		"ending":   {{Key: "valid_to", Value: 1}},
		"title":    {{Key: "title_ci", Value: 1}},
		"discount": {{Key: "discount_value", Value: -1}},
	},
}

// CheckTerms validates the discount terms and validity window of o.
func CheckTerms(o models.Offer) error {
	switch o.DiscountType {
	case models.DiscountPercentage:
		if o.DiscountValue <= 0 || o.DiscountValue > 100 {
			return storeerr.NewInvalid("percentage discount must be greater than 0 and at most 100")
		}
	case models.DiscountFixed:
		if o.DiscountValue <= 0 {
			return storeerr.NewInvalid("fixed discount must be greater than 0")
		}
	case models.DiscountBOGO:
	default:
		return storeerr.NewInvalid(`discount_type must be "percentage"|"fixed"|"bogo"`)
	}
	if !o.ValidTo.After(o.ValidFrom) {
		return storeerr.NewInvalid("valid_to must be after valid_from")
	}
	if o.UsageLimit != nil && *o.UsageLimit < 1 {
		return storeerr.NewInvalid("usage_limit must be at least 1")
	}
	if o.MaxDiscount != nil && *o.MaxDiscount < 0 {
		return storeerr.NewInvalid("max_discount cannot be negative")
	}
	if o.MinPurchase < 0 {
		return storeerr.NewInvalid("min_purchase cannot be negative")
	}
	return nil
}

type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("offers"), now: func() time.Time { return time.Now().UTC() }}
}

// Create validates o and inserts it with the status its window implies:
// active inside the window, expired after it, draft before it.
func (s *Store) Create(ctx context.Context, o models.Offer) (models.Offer, error) {
	if err := CheckTerms(o); err != nil {
		return models.Offer{}, err
	}
	now := s.now()
	o.ID = primitive.NewObjectID()
	o.TitleCI = text.Fold(o.Title)
	o.Code = normalize.Code(o.Code)
	o.UsedCount = 0
	o.Status = "" // a caller-supplied status must not survive StatusAt
	o.Status = o.StatusAt(now)
	o.CreatedAt = now
	o.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.Offer{}, err
	}
	return o, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	var o models.Offer
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Update replaces the editable terms and recomputes the status against the
// new window. A paused offer stays paused; an expired offer given a window
// that has not ended comes back as draft or active.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, o models.Offer) (*models.Offer, error) {
	if err := CheckTerms(o); err != nil {
		return nil, err
	}
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UsageLimit != nil && *o.UsageLimit < cur.UsedCount {
		return nil, storeerr.NewInvalid("usage_limit cannot be below the number of redemptions")
	}

	now := s.now()
	set := bson.M{
		"title":          o.Title,
		"title_ci":       text.Fold(o.Title),
		"description":    o.Description,
		"code":           normalize.Code(o.Code),
		"product_ids":    o.ProductIDs,
		"discount_type":  o.DiscountType,
		"discount_value": o.DiscountValue,
		"min_purchase":   o.MinPurchase,
		"valid_from":     o.ValidFrom,
		"valid_to":       o.ValidTo,
		"status":         editedStatus(cur.Status, o.ValidFrom, o.ValidTo, now),
		"updated_at":     now,
	}
	unset := bson.M{}
	if o.MaxDiscount != nil {
		set["max_discount"] = *o.MaxDiscount
	} else {
		unset["max_discount"] = ""
	}
	// The status filter keeps a concurrent pause or sweep from being
	// overwritten by a status computed from a stale read.
	filter := bson.M{"_id": id, "status": cur.Status}
	if o.UsageLimit != nil {
		set["usage_limit"] = *o.UsageLimit
		// Guard against a redemption landing between the check above and here.
		filter["used_count"] = bson.M{"$lte": *o.UsageLimit}
	} else {
		unset["usage_limit"] = ""
	}
	upd := bson.M{"$set": set}
	if len(unset) > 0 {
		upd["$unset"] = unset
	}

	var out models.Offer
	err = s.c.FindOneAndUpdate(ctx, filter, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		latest, gerr := s.GetByID(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if o.UsageLimit != nil && *o.UsageLimit < latest.UsedCount {
			return nil, storeerr.NewInvalid("usage_limit cannot be below the number of redemptions")
		}
		return nil, ErrEditConflict
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// editedStatus is the status an offer carries after its window changes.
// Paused is kept; a stored expired is recomputed as if the offer were new.
func editedStatus(cur string, from, to, now time.Time) string {
	next := models.Offer{Status: cur, ValidFrom: from, ValidTo: to}
	if cur == status.Expired {
		next.Status = status.Draft
	}
	return next.StatusAt(now)
}

// Delete removes an offer. Returns mongo.ErrNoDocuments if it did not exist.
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

// Pause moves an active offer to paused.
func (s *Store) Pause(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	return s.transition(ctx, id, status.Active, func(models.Offer) string { return status.Paused })
}

// Resume moves a paused offer back to whatever its window implies.
func (s *Store) Resume(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	now := s.now()
	return s.transition(ctx, id, status.Paused, func(o models.Offer) string {
		o.Status = status.Draft
		return o.StatusAt(now)
	})
}

func (s *Store) transition(ctx context.Context, id primitive.ObjectID, from string, next func(models.Offer) string) (*models.Offer, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status != from {
		return nil, review.ErrInvalidTransition
	}
	to := next(*cur)
	var out models.Offer
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": s.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, review.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Redeem records one use of the offer. The increment is a single
// conditional update, so used_count never passes usage_limit however many
// redemptions race.
func (s *Store) Redeem(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	now := s.now()
	filter := bson.M{
		"_id":        id,
		"status":     status.Active,
		"valid_from": bson.M{"$lte": now},
		"valid_to":   bson.M{"$gt": now},
		"$or": bson.A{
			bson.M{"usage_limit": nil},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$used_count", "$usage_limit"}}},
		},
	}
	var out models.Offer
	err := s.c.FindOneAndUpdate(ctx, filter,
		bson.M{"$inc": bson.M{"used_count": 1}, "$set": bson.M{"updated_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err == nil {
		return &out, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	cur, gerr := s.GetByID(ctx, id)
	if gerr != nil {
		return nil, gerr
	}
	if cur.LimitReached() {
		return nil, ErrUsageLimitReached
	}
	return nil, ErrNotRedeemable
}

// Sweep brings stored statuses in line with the clock: drafts whose window
// has opened become active, and anything whose window has closed expires.
func (s *Store) Sweep(ctx context.Context, now time.Time) (activated, expired int64, err error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"status":   bson.M{"$in": bson.A{status.Draft, status.Active, status.Paused}},
			"valid_to": bson.M{"$lte": now},
		},
		bson.M{"$set": bson.M{"status": status.Expired, "updated_at": now}})
	if err != nil {
		return 0, 0, err
	}
	expired = res.ModifiedCount

	res, err = s.c.UpdateMany(ctx,
		bson.M{
			"status":     status.Draft,
			"valid_from": bson.M{"$lte": now},
			"valid_to":   bson.M{"$gt": now},
		},
		bson.M{"$set": bson.M{"status": status.Active, "updated_at": now}})
	if err != nil {
		return 0, expired, err
	}
	return res.ModifiedCount, expired, nil
}

// ListFilter narrows offer lists. BusinessIDs, when non-nil, restricts the
// list to those businesses (an empty slice matches nothing).
type ListFilter struct {
	BusinessIDs []primitive.ObjectID
	Status      string
	Search      string
}

// List returns a page of offers and the unpaged total.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Offer, int64, error) {
	filter := bson.M{}
	if f.BusinessIDs != nil {
		filter["business_id"] = bson.M{"$in": f.BusinessIDs}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	search.Apply(filter, f.Search, "title_ci")
	return paging.Find[models.Offer](ctx, s.c, filter, p, Sorts)
}

// CountActive returns how many active offers the given businesses have.
func (s *Store) CountActive(ctx context.Context, businessIDs []primitive.ObjectID) (int64, error) {
	if len(businessIDs) == 0 {
		return 0, nil
	}
	return s.c.CountDocuments(ctx, bson.M{"business_id": bson.M{"$in": businessIDs}, "status": status.Active})
}
