// internal/domain/models/business.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Business categories.
var BusinessCategories = []string{
	"restaurant", "grocery", "butcher", "bakery", "clothing", "books",
	"services", "health", "education", "finance", "travel", "other",
}

// Business is a Muslim-owned business listing.
//
// NOTE:
//   - Products are NOT embedded here. They live in the products
//     collection and reference the business by business_id.
//   - Status drives public visibility; VerificationStatus mirrors the
//     admin decision for display.
type Business struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Contact     Contact            `bson:"contact" json:"contact"`
	Address     Address            `bson:"address" json:"address"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	Status             string `bson:"status" json:"status"`                           // pending | approved | rejected
	VerificationStatus string `bson:"verification_status" json:"verification_status"` // pending | verified | rejected
	Review             `bson:",inline"`

	HalalCertified  bool                `bson:"halal_certified" json:"halal_certified"`
	CertificationID *primitive.ObjectID `bson:"certification_id,omitempty" json:"certification_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
