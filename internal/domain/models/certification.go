// internal/domain/models/certification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CertificationValidity is how long an approved halal certification lasts.
const CertificationValidity = 365 * 24 * time.Hour

// HalalCertification is a business's application for halal certification
// and, once approved, the certificate record itself.
type HalalCertification struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	BusinessID     primitive.ObjectID `bson:"business_id" json:"business_id"`
	ApplicantID    primitive.ObjectID `bson:"applicant_id" json:"applicant_id"`
	CertifyingBody string             `bson:"certifying_body" json:"certifying_body"`
	Documents      []string           `bson:"documents" json:"documents"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`

	Status string `bson:"status" json:"status"` // pending | under_review | approved | rejected
	Review `bson:",inline"`

	IssuedAt          *time.Time `bson:"issued_at,omitempty" json:"issued_at,omitempty"`
	ExpiryDate        *time.Time `bson:"expiry_date,omitempty" json:"expiry_date,omitempty"`
	CertificateNumber string     `bson:"certificate_number,omitempty" json:"certificate_number,omitempty"`
	CertificateURL    string     `bson:"certificate_url,omitempty" json:"certificate_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsExpired reports whether an approved certificate is past its expiry.
func (c HalalCertification) IsExpired(now time.Time) bool {
	return c.ExpiryDate != nil && now.After(*c.ExpiryDate)
}
