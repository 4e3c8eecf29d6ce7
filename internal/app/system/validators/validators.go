// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collections lists every collection MosqueConnect writes to. They are
// created up front because multi-document transactions cannot create
// collections on older servers.
var Collections = []string{
	"users",
	"mosques",
	"businesses",
	"products",
	"offers",
	"volunteer_applications",
	"volunteer_offers",
	"volunteer_needs",
	"volunteer_profiles",
	"announcements",
	"halal_certifications",
	"audit_events",
}

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	schemas := map[string]bson.M{
		"users":                  usersSchema(),
		"mosques":                reviewedSchema(bson.A{"name", "name_ci", "imam_id", "status"}, status.ReviewStatuses),
		"businesses":             businessesSchema(),
		"products":               productsSchema(),
		"offers":                 offersSchema(),
		"volunteer_applications": reviewedSchema(bson.A{"user_id", "mosque_id", "status"}, status.ReviewStatuses),
		"volunteer_offers":       reviewedSchema(bson.A{"user_id", "title", "status"}, status.ReviewStatuses),
		"volunteer_needs":        reviewedSchema(bson.A{"mosque_id", "title", "status"}, status.NeedStatuses),
		"announcements":          reviewedSchema(bson.A{"title", "author_id", "status"}, status.ReviewStatuses),
		"halal_certifications":   reviewedSchema(bson.A{"business_id", "applicant_id", "status"}, status.CertificationStatuses),
	}

	var problems []string
	for _, coll := range Collections {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			continue
		}
		schema, ok := schemas[coll]
		if !ok {
			continue
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				continue
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	names, listErr := db.ListCollectionNames(ctx, bson.M{"name": name})
	if listErr == nil && len(names) > 0 {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErrMatches(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErrMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErrMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErrMatches(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func enum(vals []string) bson.M {
	a := make(bson.A, 0, len(vals))
	for _, v := range vals {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "password_hash", "role", "status"},
			"properties": bson.M{
				"full_name":     nonBlank,
				"email":         nonBlank,
				"password_hash": nonBlank,
				"role":          enum(models.AllRoles),
				"status":        enum([]string{status.Active, status.Disabled}),
				"is_volunteer":  bson.M{"bsonType": "bool"},
			},
		},
	}
}

// reviewedSchema covers the collections whose only hard constraints are a
// set of required fields and a status enum.
func reviewedSchema(required bson.A, statuses []string) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": required,
			"properties": bson.M{
				"status": enum(statuses),
			},
		},
	}
}

func businessesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "owner_id", "status", "verification_status"},
			"properties": bson.M{
				"name":                nonBlank,
				"status":              enum(status.ReviewStatuses),
				"verification_status": enum(status.VerificationStatuses),
				"halal_certified":     bson.M{"bsonType": "bool"},
			},
		},
	}
}

func productsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"business_id", "name", "price", "status"},
			"properties": bson.M{
				"name":   nonBlank,
				"price":  bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0},
				"status": enum([]string{status.Active, status.Inactive}),
			},
		},
	}
}

func offersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"business_id", "title", "discount_type", "valid_from", "valid_to", "used_count", "status"},
			"properties": bson.M{
				"title":         nonBlank,
				"discount_type": enum(models.DiscountTypes),
				"used_count":    bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"status":        enum(status.OfferStatuses),
			},
		},
	}
}
