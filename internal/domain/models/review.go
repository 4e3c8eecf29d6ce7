// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is the reviewer metadata stamped on a record when an admin or
// imam moves it out of pending. It is embedded inline in each reviewed
// document so every collection stores the same field names.
type Review struct {
	ReviewedBy  *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ReviewNotes string              `bson:"review_notes,omitempty" json:"review_notes,omitempty"`
}

// Address is shared by mosques and businesses.
type Address struct {
	Street     string `bson:"street,omitempty" json:"street,omitempty" validate:"max=200" label:"Street"`
	City       string `bson:"city" json:"city" validate:"required,max=100" label:"City"`
	CityCI     string `bson:"city_ci" json:"-"`
	State      string `bson:"state,omitempty" json:"state,omitempty" validate:"max=100" label:"State"`
	PostalCode string `bson:"postal_code,omitempty" json:"postal_code,omitempty" validate:"max=20" label:"Postal code"`
	Country    string `bson:"country,omitempty" json:"country,omitempty" validate:"max=100" label:"Country"`
}

// Contact is shared by mosques and businesses.
type Contact struct {
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty" validate:"max=40" label:"Phone"`
	Email   string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email" label:"Contact email"`
	Website string `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url" label:"Website"`
}
