// internal/app/features/offers/types.go
package offers

import (
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// offerInput is the body of create and update requests. Range rules that
// depend on discount_type are checked by offerstore.CheckTerms.
type offerInput struct {
	BusinessID    string    `json:"business_id" validate:"omitempty,objectid" label:"Business"`
	Title         string    `json:"title" validate:"required,max=200" label:"Title"`
	Description   string    `json:"description" validate:"max=2000" label:"Description"`
	Code          string    `json:"code" validate:"max=40" label:"Code"`
	ProductIDs    []string  `json:"product_ids" validate:"max=100,dive,objectid" label:"Products"`
	DiscountType  string    `json:"discount_type" validate:"required,oneof=percentage fixed bogo" label:"Discount type"`
	DiscountValue float64   `json:"discount_value" validate:"gte=0" label:"Discount value"`
	MinPurchase   float64   `json:"min_purchase" validate:"gte=0" label:"Minimum purchase"`
	MaxDiscount   *float64  `json:"max_discount" validate:"omitempty,gte=0" label:"Maximum discount"`
	ValidFrom     time.Time `json:"valid_from" validate:"required" label:"Valid from"`
	ValidTo       time.Time `json:"valid_to" validate:"required" label:"Valid to"`
	UsageLimit    *int      `json:"usage_limit" validate:"omitempty,gte=1" label:"Usage limit"`
}

func (in *offerInput) normalize() {
	in.Title = normalize.Name(in.Title)
	in.Description = htmlsanitize.StripTags(in.Description)
	in.Code = normalize.Code(in.Code)
	in.DiscountType = normalize.Category(in.DiscountType)
}

func (in offerInput) model() models.Offer {
	var pids []primitive.ObjectID
	for _, s := range in.ProductIDs {
		if id, err := primitive.ObjectIDFromHex(s); err == nil {
			pids = append(pids, id)
		}
	}
	return models.Offer{
		Title:         in.Title,
		Description:   in.Description,
		Code:          in.Code,
		ProductIDs:    pids,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
		MinPurchase:   in.MinPurchase,
		MaxDiscount:   in.MaxDiscount,
		ValidFrom:     in.ValidFrom.UTC(),
		ValidTo:       in.ValidTo.UTC(),
		UsageLimit:    in.UsageLimit,
	}
}

type redeemRequest struct {
	Amount float64 `json:"amount" validate:"gt=0" label:"Amount"`
}

type redeemResponse struct {
	OfferID       primitive.ObjectID `json:"offer_id"`
	Amount        float64            `json:"amount"`
	Discount      float64            `json:"discount"`
	FinalAmount   float64            `json:"final_amount"`
	UsedCount     int                `json:"used_count"`
	RemainingUses int                `json:"remaining_uses"` // -1 when unlimited
}
