// internal/domain/models/volunteer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Need urgency levels.
var NeedUrgencies = []string{"low", "medium", "high"}

// VolunteerApplication is a volunteer's application to serve at a mosque,
// optionally against a specific posted need.
type VolunteerApplication struct {
	ID           primitive.ObjectID  `bson:"_id" json:"id"`
	UserID       primitive.ObjectID  `bson:"user_id" json:"user_id"`
	MosqueID     primitive.ObjectID  `bson:"mosque_id" json:"mosque_id"`
	NeedID       *primitive.ObjectID `bson:"need_id,omitempty" json:"need_id,omitempty"`
	Skills       []string            `bson:"skills" json:"skills"`
	Availability []string            `bson:"availability" json:"availability"`
	Motivation   string              `bson:"motivation,omitempty" json:"motivation,omitempty"`

	Status string `bson:"status" json:"status"` // pending | approved | rejected
	Review `bson:",inline"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// VolunteerOffer is a general offer of help not tied to one mosque.
type VolunteerOffer struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title        string             `bson:"title" json:"title"`
	TitleCI      string             `bson:"title_ci" json:"-"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Skills       []string           `bson:"skills" json:"skills"`
	Availability []string           `bson:"availability" json:"availability"`

	Status string `bson:"status" json:"status"` // pending | approved | rejected
	Review `bson:",inline"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// VolunteerNeed is a need posted by a mosque.
type VolunteerNeed struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	MosqueID         primitive.ObjectID `bson:"mosque_id" json:"mosque_id"`
	PostedBy         primitive.ObjectID `bson:"posted_by" json:"posted_by"`
	Title            string             `bson:"title" json:"title"`
	TitleCI          string             `bson:"title_ci" json:"-"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	SkillsRequired   []string           `bson:"skills_required" json:"skills_required"`
	VolunteersNeeded int                `bson:"volunteers_needed" json:"volunteers_needed"`
	Urgency          string             `bson:"urgency" json:"urgency"` // low | medium | high
	Status           string             `bson:"status" json:"status"`   // open | filled | closed
	StartDate        *time.Time         `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate          *time.Time         `bson:"end_date,omitempty" json:"end_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// VolunteerProfile holds one volunteer's standing details. One per user.
type VolunteerProfile struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills       []string           `bson:"skills" json:"skills"`
	Availability []string           `bson:"availability" json:"availability"`
	Languages    []string           `bson:"languages" json:"languages"`
	Experience   string             `bson:"experience,omitempty" json:"experience,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
