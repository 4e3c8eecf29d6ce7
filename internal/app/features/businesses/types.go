// internal/app/features/businesses/types.go
package businesses

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
)

type businessInput struct {
	Name        string         `json:"name" validate:"required,max=200" label:"Name"`
	Description string         `json:"description" validate:"max=5000" label:"Description"`
	Category    string         `json:"category" validate:"required,oneof=restaurant grocery butcher bakery clothing books services health education finance travel other" label:"Category"`
	Contact     models.Contact `json:"contact"`
	Address     models.Address `json:"address"`
}

func (in *businessInput) normalize() {
	in.Name = normalize.Name(in.Name)
	in.Description = htmlsanitize.StripTags(in.Description)
	in.Category = normalize.Category(in.Category)
	in.Address.City = normalize.Name(in.Address.City)
	in.Contact.Email = normalize.Email(in.Contact.Email)
}

func (in businessInput) model() models.Business {
	return models.Business{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Contact:     in.Contact,
		Address:     in.Address,
	}
}

type productInput struct {
	Name           string  `json:"name" validate:"required,max=200" label:"Name"`
	Description    string  `json:"description" validate:"max=5000" label:"Description"`
	Price          float64 `json:"price" validate:"gte=0" label:"Price"`
	Currency       string  `json:"currency" validate:"omitempty,len=3,alpha" label:"Currency"`
	Category       string  `json:"category" validate:"max=100" label:"Category"`
	HalalCertified bool    `json:"halal_certified"`
	InStock        *bool   `json:"in_stock"`
	Status         string  `json:"status" validate:"omitempty,oneof=active inactive" label:"Status"`
}

func (in *productInput) normalize() {
	in.Name = normalize.Name(in.Name)
	in.Description = htmlsanitize.StripTags(in.Description)
	in.Currency = normalize.Code(in.Currency)
	in.Category = normalize.Category(in.Category)
	in.Status = normalize.Status(in.Status)
}

func (in productInput) model() models.Product {
	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}
	return models.Product{
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		Currency:       in.Currency,
		Category:       in.Category,
		HalalCertified: in.HalalCertified,
		InStock:        inStock,
		Status:         in.Status,
	}
}
