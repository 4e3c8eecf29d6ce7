// internal/domain/models/mosque.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Facilities a mosque can advertise.
const (
	FacilityParking          = "parking"
	FacilityWuduArea         = "wudu_area"
	FacilityWomenSection     = "women_section"
	FacilityWheelchairAccess = "wheelchair_access"
	FacilityLibrary          = "library"
	FacilityClasses          = "classes"
	FacilityFuneralServices  = "funeral_services"
	FacilityNikahServices    = "nikah_services"
)

// AllFacilities lists every facility value accepted on a mosque.
var AllFacilities = []string{
	FacilityParking,
	FacilityWuduArea,
	FacilityWomenSection,
	FacilityWheelchairAccess,
	FacilityLibrary,
	FacilityClasses,
	FacilityFuneralServices,
	FacilityNikahServices,
}

// Location is a WGS84 point.
type Location struct {
	Lat float64 `bson:"lat" json:"lat" validate:"gte=-90,lte=90" label:"Latitude"`
	Lng float64 `bson:"lng" json:"lng" validate:"gte=-180,lte=180" label:"Longitude"`
}

// PrayerTimes holds the congregation times as "HH:MM" strings.
type PrayerTimes struct {
	Fajr    string `bson:"fajr,omitempty" json:"fajr,omitempty" validate:"omitempty,hhmm" label:"Fajr"`
	Dhuhr   string `bson:"dhuhr,omitempty" json:"dhuhr,omitempty" validate:"omitempty,hhmm" label:"Dhuhr"`
	Asr     string `bson:"asr,omitempty" json:"asr,omitempty" validate:"omitempty,hhmm" label:"Asr"`
	Maghrib string `bson:"maghrib,omitempty" json:"maghrib,omitempty" validate:"omitempty,hhmm" label:"Maghrib"`
	Isha    string `bson:"isha,omitempty" json:"isha,omitempty" validate:"omitempty,hhmm" label:"Isha"`
	Jummah  string `bson:"jummah,omitempty" json:"jummah,omitempty" validate:"omitempty,hhmm" label:"Jummah"`
}

// Mosque is a mosque profile submitted by an imam and reviewed by an admin.
type Mosque struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Address     Address            `bson:"address" json:"address"`
	Location    *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Contact     Contact            `bson:"contact" json:"contact"`
	Facilities  []string           `bson:"facilities" json:"facilities"`
	PrayerTimes PrayerTimes        `bson:"prayer_times" json:"prayer_times"`
	Capacity    int                `bson:"capacity,omitempty" json:"capacity,omitempty"`

	ImamID primitive.ObjectID `bson:"imam_id" json:"imam_id"`
	Status string             `bson:"status" json:"status"` // pending | approved | rejected
	Review `bson:",inline"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
