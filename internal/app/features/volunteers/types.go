// internal/app/features/volunteers/types.go
package volunteers

import (
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
)

type profileInput struct {
	Bio          string   `json:"bio" validate:"max=2000" label:"Bio"`
	Skills       []string `json:"skills" validate:"max=50,dive,max=60" label:"Skills"`
	Availability []string `json:"availability" validate:"max=30,dive,max=60" label:"Availability"`
	Languages    []string `json:"languages" validate:"max=20,dive,max=40" label:"Languages"`
	Experience   string   `json:"experience" validate:"max=2000" label:"Experience"`
}

type applicationInput struct {
	MosqueID     string   `json:"mosque_id" validate:"required,objectid" label:"Mosque"`
	NeedID       string   `json:"need_id" validate:"omitempty,objectid" label:"Need"`
	Skills       []string `json:"skills" validate:"max=50,dive,max=60" label:"Skills"`
	Availability []string `json:"availability" validate:"max=30,dive,max=60" label:"Availability"`
	Motivation   string   `json:"motivation" validate:"max=2000" label:"Motivation"`
}

type offerInput struct {
	Title        string   `json:"title" validate:"required,max=200" label:"Title"`
	Description  string   `json:"description" validate:"max=2000" label:"Description"`
	Skills       []string `json:"skills" validate:"max=50,dive,max=60" label:"Skills"`
	Availability []string `json:"availability" validate:"max=30,dive,max=60" label:"Availability"`
}

type needInput struct {
	MosqueID         string     `json:"mosque_id" validate:"omitempty,objectid" label:"Mosque"`
	Title            string     `json:"title" validate:"required,max=200" label:"Title"`
	Description      string     `json:"description" validate:"max=2000" label:"Description"`
	SkillsRequired   []string   `json:"skills_required" validate:"max=50,dive,max=60" label:"Skills required"`
	VolunteersNeeded int        `json:"volunteers_needed" validate:"gte=0,lte=10000" label:"Volunteers needed"`
	Urgency          string     `json:"urgency" validate:"omitempty,oneof=low medium high" label:"Urgency"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
}

func (in *needInput) normalize() {
	in.Title = normalize.Name(in.Title)
	in.Description = htmlsanitize.StripTags(in.Description)
	in.Urgency = normalize.Category(in.Urgency)
}

func (in needInput) model() models.VolunteerNeed {
	return models.VolunteerNeed{
		Title:            in.Title,
		Description:      in.Description,
		SkillsRequired:   in.SkillsRequired,
		VolunteersNeeded: in.VolunteersNeeded,
		Urgency:          in.Urgency,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
	}
}

type needStatusInput struct {
	Status string `json:"status" validate:"required,oneof=open filled closed" label:"Status"`
}

// datesOK reports whether the end date, when both are set, follows the start.
func (in needInput) datesOK() bool {
	return in.StartDate == nil || in.EndDate == nil || in.EndDate.After(*in.StartDate)
}
