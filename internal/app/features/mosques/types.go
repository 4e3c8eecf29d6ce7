// internal/app/features/mosques/types.go
package mosques

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
)

// mosqueInput is the body of create and update requests.
type mosqueInput struct {
	Name        string             `json:"name" validate:"required,max=200" label:"Name"`
	Description string             `json:"description" validate:"max=5000" label:"Description"`
	Address     models.Address     `json:"address"`
	Location    *models.Location   `json:"location"`
	Contact     models.Contact     `json:"contact"`
	Facilities  []string           `json:"facilities" validate:"max=20,dive,oneof=parking wudu_area women_section wheelchair_access library classes funeral_services nikah_services" label:"Facilities"`
	PrayerTimes models.PrayerTimes `json:"prayer_times"`
	Capacity    int                `json:"capacity" validate:"gte=0,lte=1000000" label:"Capacity"`
}

func (in *mosqueInput) normalize() {
	in.Name = normalize.Name(in.Name)
	in.Description = htmlsanitize.StripTags(in.Description)
	in.Address.City = normalize.Name(in.Address.City)
	in.Contact.Email = normalize.Email(in.Contact.Email)
	for i, f := range in.Facilities {
		in.Facilities[i] = normalize.Category(f)
	}
}

func (in mosqueInput) model() models.Mosque {
	return models.Mosque{
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Location:    in.Location,
		Contact:     in.Contact,
		Facilities:  in.Facilities,
		PrayerTimes: in.PrayerTimes,
		Capacity:    in.Capacity,
	}
}
