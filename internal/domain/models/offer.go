// internal/domain/models/offer.go
package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
	DiscountBOGO       = "bogo"
)

// DiscountTypes lists every accepted discount type.
var DiscountTypes = []string{DiscountPercentage, DiscountFixed, DiscountBOGO}

// Offer statuses as stored. They mirror system/status; they are repeated
// here so the discount arithmetic below has no dependency on app packages.
const (
	offerDraft   = "draft"
	offerActive  = "active"
	offerExpired = "expired"
	offerPaused  = "paused"
)

// Offer is a time-bounded discount issued by a business.
type Offer struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	BusinessID  primitive.ObjectID   `bson:"business_id" json:"business_id"`
	Title       string               `bson:"title" json:"title"`
	TitleCI     string               `bson:"title_ci" json:"-"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Code        string               `bson:"code,omitempty" json:"code,omitempty"`
	ProductIDs  []primitive.ObjectID `bson:"product_ids,omitempty" json:"product_ids,omitempty"`

	DiscountType  string   `bson:"discount_type" json:"discount_type"`
	DiscountValue float64  `bson:"discount_value" json:"discount_value"`
	MinPurchase   float64  `bson:"min_purchase,omitempty" json:"min_purchase,omitempty"`
	MaxDiscount   *float64 `bson:"max_discount,omitempty" json:"max_discount,omitempty"`

	ValidFrom time.Time `bson:"valid_from" json:"valid_from"`
	ValidTo   time.Time `bson:"valid_to" json:"valid_to"`

	UsageLimit *int `bson:"usage_limit,omitempty" json:"usage_limit,omitempty"`
	UsedCount  int  `bson:"used_count" json:"used_count"`

	Status    string             `bson:"status" json:"status"` // draft | active | expired | paused
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// InWindow reports whether now falls inside [ValidFrom, ValidTo).
func (o Offer) InWindow(now time.Time) bool {
	return !now.Before(o.ValidFrom) && now.Before(o.ValidTo)
}

// StatusAt returns the status the offer should carry at now, given its
// current status. Paused offers stay paused until they expire.
func (o Offer) StatusAt(now time.Time) string {
	if !now.Before(o.ValidTo) {
		return offerExpired
	}
	switch o.Status {
	case offerPaused, offerExpired:
		return o.Status
	}
	if now.Before(o.ValidFrom) {
		return offerDraft
	}
	return offerActive
}

// IsRedeemable reports whether the offer can be used at now.
func (o Offer) IsRedeemable(now time.Time) bool {
	if o.Status != offerActive || !o.InWindow(now) {
		return false
	}
	return !o.LimitReached()
}

// LimitReached reports whether UsedCount has hit UsageLimit.
func (o Offer) LimitReached() bool {
	return o.UsageLimit != nil && o.UsedCount >= *o.UsageLimit
}

// RemainingUses returns the uses left, or -1 when the offer is unlimited.
func (o Offer) RemainingUses() int {
	if o.UsageLimit == nil {
		return -1
	}
	if left := *o.UsageLimit - o.UsedCount; left > 0 {
		return left
	}
	return 0
}

// CalculateDiscount returns the discount applied to a purchase of amount
// at now, rounded to cents. BOGO offers are applied per item at checkout
// and contribute no amount-based discount.
func (o Offer) CalculateDiscount(amount float64, now time.Time) float64 {
	if amount <= 0 || !o.IsRedeemable(now) || amount < o.MinPurchase {
		return 0
	}
	var d float64
	switch o.DiscountType {
	case DiscountPercentage:
		d = amount * o.DiscountValue / 100
		if o.MaxDiscount != nil && d > *o.MaxDiscount {
			d = *o.MaxDiscount
		}
	case DiscountFixed:
		d = math.Min(o.DiscountValue, amount)
	default:
		return 0
	}
	return roundCents(d)
}

// DiscountedPrice returns amount minus CalculateDiscount.
func (o Offer) DiscountedPrice(amount float64, now time.Time) float64 {
	return roundCents(amount - o.CalculateDiscount(amount, now))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
