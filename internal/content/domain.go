// internal/content/domain.go
package content

import (
	"github.com/google/uuid"
)

// Content item types.
const (
	TypeVideo   = "video"
	TypeCourse  = "course"
	TypeArticle = "article"
)

// Item represents a piece of catalog content. Items are immutable
// after seeding; the catalog is read-only to its consumers.
type Item struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Type            string    `json:"type"`
	Tier            string    `json:"tier"`
	DurationMinutes int       `json:"duration_minutes"`
	ImageRef        string    `json:"image_ref"`
}

// Filter selects catalog items. Zero-valued fields match everything.
// Query matches case-insensitively against title, description, or
// category.
type Filter struct {
	Query    string
	Category string
	Tier     string
}
