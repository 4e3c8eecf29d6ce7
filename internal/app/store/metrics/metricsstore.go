package metricsstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ByKey maps a grouped value (a status or role) to its document count.
type ByKey map[string]int64

// Total sums every bucket.
func (b ByKey) Total() int64 {
	var n int64
	for _, v := range b {
		n += v
	}
	return n
}

// PlatformStats is the admin overview: per-collection counts grouped by
// status, and users grouped by role.
type PlatformStats struct {
	Mosques                ByKey `json:"mosques"`
	Businesses             ByKey `json:"businesses"`
	Offers                 ByKey `json:"offers"`
	VolunteerApplications  ByKey `json:"volunteer_applications"`
	VolunteerOffers        ByKey `json:"volunteer_offers"`
	VolunteerNeeds         ByKey `json:"volunteer_needs"`
	Announcements          ByKey `json:"announcements"`
	Certifications         ByKey `json:"certifications"`
	UsersByRole            ByKey `json:"users_by_role"`
	Volunteers             int64 `json:"volunteers"`
	HalalCertifiedBusiness int64 `json:"halal_certified_businesses"`
}

// CountBy groups the documents of coll matching match by field and counts
// each group. Documents missing field are not counted.
func CountBy(ctx context.Context, coll *mongo.Collection, match bson.M, field string) (ByKey, error) {
	if match == nil {
		match = bson.M{}
	}
	cur, err := coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := ByKey{}
	for cur.Next(ctx) {
		var row struct {
			Key *string `bson:"_id"`
			N   int64   `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		if row.Key != nil {
			out[*row.Key] = row.N
		}
	}
	return out, cur.Err()
}

// FetchPlatformStats runs every grouping in the admin overview. Errors
// from individual groupings are joined so a partial result is still
// returned alongside them.
func FetchPlatformStats(ctx context.Context, db *mongo.Database) (PlatformStats, error) {
	var out PlatformStats
	var errs []error

	byStatus := []struct {
		coll string
		dst  *ByKey
	}{
		{"mosques", &out.Mosques},
		{"businesses", &out.Businesses},
		{"offers", &out.Offers},
		{"volunteer_applications", &out.VolunteerApplications},
		{"volunteer_offers", &out.VolunteerOffers},
		{"volunteer_needs", &out.VolunteerNeeds},
		{"announcements", &out.Announcements},
		{"halal_certifications", &out.Certifications},
	}
	for _, g := range byStatus {
		m, err := CountBy(ctx, db.Collection(g.coll), nil, "status")
		if err != nil {
			errs = append(errs, err)
			m = ByKey{}
		}
		*g.dst = m
	}

	users := db.Collection("users")
	roles, err := CountBy(ctx, users, nil, "role")
	if err != nil {
		errs = append(errs, err)
		roles = ByKey{}
	}
	out.UsersByRole = roles

	if n, err := users.CountDocuments(ctx, bson.M{"is_volunteer": true}); err == nil {
		out.Volunteers = n
	} else {
		errs = append(errs, err)
	}
	if n, err := db.Collection("businesses").CountDocuments(ctx, bson.M{"halal_certified": true}); err == nil {
		out.HalalCertifiedBusiness = n
	} else {
		errs = append(errs, err)
	}

	return out, errors.Join(errs...)
}
