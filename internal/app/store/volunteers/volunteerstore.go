// internal/app/store/volunteers/volunteerstore.go
package volunteerstore

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
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateApplication is returned when the volunteer already has a
// pending application to the same mosque.
var ErrDuplicateApplication = storeerr.NewConflict("you already have a pending application to this mosque")

// Sorts are the orderings volunteer lists accept.
var Sorts = paging.Sorts{
	Default: "newest",
	Orders: map[string]bson.D{
		"newest": {{Key: "created_at", Value: -1}},
		"oldest": {{Key: "created_at", Value: 1}},
	},
}

// NeedSorts adds urgency ordering for needs.
var NeedSorts = paging.Sorts{
	Default: "newest",
	Orders: map[string]bson.D{
		"newest":  {{Key: "created_at", Value: -1}},
		"oldest":  {{Key: "created_at", Value: 1}},
		"title":   {{Key: "title_ci", Value: 1}},
		"urgency": {{Key: "urgency_rank", Value: -1}, {Key: "created_at", Value: -1}},
	},
}

var urgencyRank = map[string]int{"low": 1, "medium": 2, "high": 3}

type Store struct {
	apps     *mongo.Collection
	offers   *mongo.Collection
	needs    *mongo.Collection
	profiles *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		apps:     db.Collection("volunteer_applications"),
		offers:   db.Collection("volunteer_offers"),
		needs:    db.Collection("volunteer_needs"),
		profiles: db.Collection("volunteer_profiles"),
	}
}

/* ------------------------------ applications ------------------------------ */

// Apply inserts a pending application. A second pending application from
// the same user to the same mosque is rejected with ErrDuplicateApplication.
func (s *Store) Apply(ctx context.Context, a models.VolunteerApplication) (models.VolunteerApplication, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Skills = normalize.Tags(a.Skills)
	a.Availability = normalize.Tags(a.Availability)
	a.Status = status.Pending
	a.Review = models.Review{}
	a.CreatedAt = now
	a.UpdatedAt = now

	// The partial unique index is the real guard; the lookup gives the
	// same answer on deployments where the index is missing.
	n, err := s.apps.CountDocuments(ctx, bson.M{"user_id": a.UserID, "mosque_id": a.MosqueID, "status": status.Pending})
	if err != nil {
		return models.VolunteerApplication{}, err
	}
	if n > 0 {
		return models.VolunteerApplication{}, ErrDuplicateApplication
	}
	if _, err := s.apps.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.VolunteerApplication{}, ErrDuplicateApplication
		}
		return models.VolunteerApplication{}, err
	}
	return a, nil
}

func (s *Store) GetApplication(ctx context.Context, id primitive.ObjectID) (*models.VolunteerApplication, error) {
	var a models.VolunteerApplication
	if err := s.apps.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ReviewApplication applies an approve/reject decision.
func (s *Store) ReviewApplication(ctx context.Context, id primitive.ObjectID, d review.Decision) (*models.VolunteerApplication, string, error) {
	from, err := review.Apply(ctx, s.apps, id, review.Standard, d, nil)
	if err != nil {
		return nil, from, err
	}
	a, err := s.GetApplication(ctx, id)
	return a, from, err
}

// ApplicationFilter narrows application lists.
type ApplicationFilter struct {
	UserID   *primitive.ObjectID
	MosqueID *primitive.ObjectID
	NeedID   *primitive.ObjectID
	Status   string
}

func (s *Store) ListApplications(ctx context.Context, f ApplicationFilter, p paging.Params) ([]models.VolunteerApplication, int64, error) {
	filter := bson.M{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.MosqueID != nil {
		filter["mosque_id"] = *f.MosqueID
	}
	if f.NeedID != nil {
		filter["need_id"] = *f.NeedID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return paging.Find[models.VolunteerApplication](ctx, s.apps, filter, p, Sorts)
}

/* --------------------------------- offers --------------------------------- */

// CreateOffer inserts a pending general offer of help.
func (s *Store) CreateOffer(ctx context.Context, o models.VolunteerOffer) (models.VolunteerOffer, error) {
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.TitleCI = text.Fold(o.Title)
	o.Skills = normalize.Tags(o.Skills)
	o.Availability = normalize.Tags(o.Availability)
	o.Status = status.Pending
	o.Review = models.Review{}
	o.CreatedAt = now
	o.UpdatedAt = now
	if _, err := s.offers.InsertOne(ctx, o); err != nil {
		return models.VolunteerOffer{}, err
	}
	return o, nil
}

func (s *Store) GetOffer(ctx context.Context, id primitive.ObjectID) (*models.VolunteerOffer, error) {
	var o models.VolunteerOffer
	if err := s.offers.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) ReviewOffer(ctx context.Context, id primitive.ObjectID, d review.Decision) (*models.VolunteerOffer, string, error) {
	from, err := review.Apply(ctx, s.offers, id, review.Standard, d, nil)
	if err != nil {
		return nil, from, err
	}
	o, err := s.GetOffer(ctx, id)
	return o, from, err
}

// OfferFilter narrows volunteer offer lists.
type OfferFilter struct {
	UserID *primitive.ObjectID
	Status string
	Skill  string
	Search string
}

func (s *Store) ListOffers(ctx context.Context, f OfferFilter, p paging.Params) ([]models.VolunteerOffer, int64, error) {
	filter := bson.M{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Skill != "" {
		filter["skills"] = f.Skill
	}
	search.Apply(filter, f.Search, "title_ci")
	return paging.Find[models.VolunteerOffer](ctx, s.offers, filter, p, Sorts)
}

/* --------------------------------- needs ---------------------------------- */

// needDoc carries the sort key for urgency alongside the need itself.
type needDoc struct {
	models.VolunteerNeed `bson:",inline"`
	UrgencyRank          int `bson:"urgency_rank"`
}

// CreateNeed inserts an open need.
func (s *Store) CreateNeed(ctx context.Context, n models.VolunteerNeed) (models.VolunteerNeed, error) {
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID()
	n.TitleCI = text.Fold(n.Title)
	n.SkillsRequired = normalize.Tags(n.SkillsRequired)
	if n.Urgency == "" {
		n.Urgency = "medium"
	}
	if n.VolunteersNeeded < 1 {
		n.VolunteersNeeded = 1
	}
	n.Status = status.Open
	n.CreatedAt = now
	n.UpdatedAt = now
	if _, err := s.needs.InsertOne(ctx, needDoc{VolunteerNeed: n, UrgencyRank: urgencyRank[n.Urgency]}); err != nil {
		return models.VolunteerNeed{}, err
	}
	return n, nil
}

func (s *Store) GetNeed(ctx context.Context, id primitive.ObjectID) (*models.VolunteerNeed, error) {
	var n models.VolunteerNeed
	if err := s.needs.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNeed replaces the editable fields of a need.
func (s *Store) UpdateNeed(ctx context.Context, id primitive.ObjectID, n models.VolunteerNeed) (*models.VolunteerNeed, error) {
	if n.Urgency == "" {
		n.Urgency = "medium"
	}
	if n.VolunteersNeeded < 1 {
		n.VolunteersNeeded = 1
	}
	set := bson.M{
		"title":             n.Title,
		"title_ci":          text.Fold(n.Title),
		"description":       n.Description,
		"skills_required":   normalize.Tags(n.SkillsRequired),
		"volunteers_needed": n.VolunteersNeeded,
		"urgency":           n.Urgency,
		"urgency_rank":      urgencyRank[n.Urgency],
		"start_date":        n.StartDate,
		"end_date":          n.EndDate,
		"updated_at":        time.Now().UTC(),
	}
	var out models.VolunteerNeed
	err := s.needs.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetNeedStatus moves a need between open, filled and closed.
func (s *Store) SetNeedStatus(ctx context.Context, id primitive.ObjectID, to string) (*models.VolunteerNeed, error) {
	var cur models.VolunteerNeed
	if err := s.needs.FindOne(ctx, bson.M{"_id": id}).Decode(&cur); err != nil {
		return nil, err
	}
	if err := review.Need.Check(cur.Status, to); err != nil {
		return nil, err
	}
	var out models.VolunteerNeed
	err := s.needs.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": cur.Status},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, review.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// NeedFilter narrows need lists.
type NeedFilter struct {
	MosqueID *primitive.ObjectID
	Status   string
	Urgency  string
	Skill    string
	Search   string
}

func (s *Store) ListNeeds(ctx context.Context, f NeedFilter, p paging.Params) ([]models.VolunteerNeed, int64, error) {
	filter := bson.M{}
	if f.MosqueID != nil {
		filter["mosque_id"] = *f.MosqueID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Urgency != "" {
		filter["urgency"] = f.Urgency
	}
	if f.Skill != "" {
		filter["skills_required"] = f.Skill
	}
	search.Apply(filter, f.Search, "title_ci")
	return paging.Find[models.VolunteerNeed](ctx, s.needs, filter, p, NeedSorts)
}

/* -------------------------------- profiles -------------------------------- */

// GetProfile returns the user's profile or mongo.ErrNoDocuments.
func (s *Store) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.VolunteerProfile, error) {
	var p models.VolunteerProfile
	if err := s.profiles.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile creates or replaces the user's profile.
func (s *Store) UpsertProfile(ctx context.Context, p models.VolunteerProfile) (*models.VolunteerProfile, error) {
	now := time.Now().UTC()
	set := bson.M{
		"bio":          p.Bio,
		"skills":       normalize.Tags(p.Skills),
		"availability": normalize.Tags(p.Availability),
		"languages":    normalize.Tags(p.Languages),
		"experience":   p.Experience,
		"updated_at":   now,
	}
	upd := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "user_id": p.UserID, "created_at": now},
	}
	var out models.VolunteerProfile
	err := s.profiles.FindOneAndUpdate(ctx, bson.M{"user_id": p.UserID}, upd,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
