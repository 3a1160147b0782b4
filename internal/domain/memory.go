package domain

import "time"

// Category classifies what kind of thing a memory is about.
type Category string

// The closed set of memory categories.
const (
	CategoryPerson  Category = "Person"
	CategoryPlace   Category = "Place"
	CategoryThing   Category = "Thing"
	CategoryMoment  Category = "Moment"
	CategoryPicture Category = "Picture"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{CategoryPerson, CategoryPlace, CategoryThing, CategoryMoment, CategoryPicture}
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPerson, CategoryPlace, CategoryThing, CategoryMoment, CategoryPicture:
		return true
	}
	return false
}

// Field length limits for memories.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxTimeframeLength   = 100
	MaxImageURLLength    = 500
)

// Memory represents one shared recollection.
type Memory struct {
	ID string `json:"id"`

	// UserID references the owning local user; ExternalUserID duplicates the
	// provider identifier for query convenience.
	UserID         string `json:"user_id"`
	ExternalUserID string `json:"external_user_id"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`

	// Timeframe is free text like "Summer 1998" or "last spring".
	Timeframe string `json:"timeframe,omitempty"`

	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	IsPublic bool     `json:"is_public"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (m *Memory) Touch() {
	m.UpdatedAt = time.Now().UTC()
}

// OwnedBy reports whether the memory belongs to the given external identity.
func (m *Memory) OwnedBy(externalID string) bool {
	return m.ExternalUserID == externalID
}
