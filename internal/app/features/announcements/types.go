// internal/app/features/announcements/types.go
package announcements

import (
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
)

type announcementInput struct {
	Title      string     `json:"title" validate:"required,max=200" label:"Title"`
	Content    string     `json:"content" validate:"required,max=20000" label:"Content"`
	Type       string     `json:"type" validate:"omitempty,oneof=general event promotion update" label:"Type"`
	BusinessID string     `json:"business_id" validate:"omitempty,objectid" label:"Business"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// normalize cleans the input. Content keeps safe formatting; a body that
// is nothing but stripped markup ends up empty and fails validation.
func (in *announcementInput) normalize() {
	in.Title = normalize.Name(htmlsanitize.StripTags(in.Title))
	in.Content = htmlsanitize.Sanitize(in.Content)
	in.Type = normalize.Category(in.Type)
}
