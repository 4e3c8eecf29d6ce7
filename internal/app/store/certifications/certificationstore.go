// internal/app/store/certifications/certificationstore.go
package certificationstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/store/storeerr"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/review"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/app/system/txn"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrOpenApplication is returned when the business already has a pending
// or under-review application.
var ErrOpenApplication = storeerr.NewConflict("this business already has an open certification application")

// ErrBusinessGone is returned by Review when approval finds the business
// deleted.
var ErrBusinessGone = storeerr.NewConflict("the certified business no longer exists")

// CertificateURLPrefix prefixes the certificate number in certificate_url.
const CertificateURLPrefix = "/certificates/"

// openStatuses are the statuses that block a new application.
var openStatuses = bson.A{status.Pending, status.UnderReview}

// Sorts are the orderings certification lists accept.
var Sorts = paging.Sorts{
	Default: "newest",
	Orders: map[string]bson.D{
		"newest": {{Key: "created_at", Value: -1}},
		"oldest": {{Key: "created_at", Value: 1}},
	},
}

type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, c: db.Collection("halal_certifications"), log: logger}
}

// NewCertificateNumber returns a fresh certificate number such as
// "HC-2026-1A2B3C4D".
func NewCertificateNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "HC-" + now.Format("2006") + "-" + id[:8]
}

// Apply inserts a pending application for c.BusinessID.
func (s *Store) Apply(ctx context.Context, c models.HalalCertification) (models.HalalCertification, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"business_id": c.BusinessID, "status": bson.M{"$in": openStatuses}})
	if err != nil {
		return models.HalalCertification{}, err
	}
	if n > 0 {
		return models.HalalCertification{}, ErrOpenApplication
	}

	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	if c.Documents == nil {
		c.Documents = []string{}
	}
	c.Status = status.Pending
	c.Review = models.Review{}
	c.IssuedAt, c.ExpiryDate = nil, nil
	c.CertificateNumber, c.CertificateURL = "", ""
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.HalalCertification{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.HalalCertification, error) {
	var c models.HalalCertification
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Review moves a certification through pending → under_review →
// approved|rejected. Approval issues the certificate and marks the
// business halal certified in the same transaction.
func (s *Store) Review(ctx context.Context, id primitive.ObjectID, d review.Decision) (*models.HalalCertification, string, error) {
	if d.At.IsZero() {
		d.At = time.Now().UTC()
	}
	var from string
	err := txn.Run(ctx, s.db.Client(), s.log, func(ctx context.Context) error {
		var prior models.HalalCertification
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&prior); err != nil {
			return err
		}
		var extra bson.M
		if d.Status == status.Approved {
			number := NewCertificateNumber(d.At)
			extra = bson.M{
				"issued_at":          d.At,
				"expiry_date":        d.At.Add(models.CertificationValidity),
				"certificate_number": number,
				"certificate_url":    CertificateURLPrefix + number,
			}
		}
		var err error
		from, err = review.Apply(ctx, s.c, id, review.Certification, d, extra)
		if err != nil || d.Status != status.Approved {
			return err
		}

		if err := s.certifyBusiness(ctx, prior.BusinessID, id, d.At); err != nil {
			s.revert(ctx, prior)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, from, err
	}
	c, err := s.GetByID(ctx, id)
	return c, from, err
}

func (s *Store) certifyBusiness(ctx context.Context, bizID, certID primitive.ObjectID, at time.Time) error {
	res, err := s.db.Collection("businesses").UpdateByID(ctx, bizID, bson.M{"$set": bson.M{
		"halal_certified":  true,
		"certification_id": certID,
		"updated_at":       at,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBusinessGone
	}
	return nil
}

// revert restores prior over a certification left approved by a failed
// approval.
func (s *Store) revert(ctx context.Context, prior models.HalalCertification) {
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": prior.ID, "status": status.Approved}, prior)
	if err != nil {
		s.log.Error("certification approval not reverted",
			zap.String("certification_id", prior.ID.Hex()), zap.Error(err))
	}
}

// ListFilter narrows certification lists. BusinessIDs, when non-nil,
// restricts the list to those businesses.
type ListFilter struct {
	BusinessIDs []primitive.ObjectID
	Status      string
}

func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.HalalCertification, int64, error) {
	filter := bson.M{}
	if f.BusinessIDs != nil {
		filter["business_id"] = bson.M{"$in": f.BusinessIDs}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return paging.Find[models.HalalCertification](ctx, s.c, filter, p, Sorts)
}

// LatestByBusiness returns the most recent application for each business.
func (s *Store) LatestByBusiness(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.HalalCertification, error) {
	out := make(map[primitive.ObjectID]models.HalalCertification, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"business_id": bson.M{"$in": ids}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.M{"_id": "$business_id", "doc": bson.M{"$first": "$$ROOT"}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			Doc models.HalalCertification `bson:"doc"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Doc.BusinessID] = row.Doc
	}
	return out, cur.Err()
}
