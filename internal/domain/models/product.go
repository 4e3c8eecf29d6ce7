// internal/domain/models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product belongs to a Business through BusinessID.
type Product struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	BusinessID     primitive.ObjectID `bson:"business_id" json:"business_id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Price          float64            `bson:"price" json:"price"`
	Currency       string             `bson:"currency" json:"currency"`
	Category       string             `bson:"category,omitempty" json:"category,omitempty"`
	HalalCertified bool               `bson:"halal_certified" json:"halal_certified"`
	InStock        bool               `bson:"in_stock" json:"in_stock"`
	Status         string             `bson:"status" json:"status"` // active | inactive

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
