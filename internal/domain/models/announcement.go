// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement types.
var AnnouncementTypes = []string{"general", "event", "promotion", "update"}

// Announcement is a status-tracked content item. BusinessID is nil for
// platform-wide announcements posted by admins.
type Announcement struct {
	ID         primitive.ObjectID  `bson:"_id" json:"id"`
	Title      string              `bson:"title" json:"title"`
	TitleCI    string              `bson:"title_ci" json:"-"`
	Content    string              `bson:"content" json:"content"` // sanitized HTML
	Type       string              `bson:"type" json:"type"`
	BusinessID *primitive.ObjectID `bson:"business_id,omitempty" json:"business_id,omitempty"`
	AuthorID   primitive.ObjectID  `bson:"author_id" json:"author_id"`
	ExpiresAt  *time.Time          `bson:"expires_at,omitempty" json:"expires_at,omitempty"`

	Status string `bson:"status" json:"status"` // pending | approved | rejected
	Review `bson:",inline"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
