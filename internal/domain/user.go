package domain

import "time"

// User represents a registered person, mirroring an external identity record
// locally so memories and connections have a stable foreign key.
type User struct {
	ID string `json:"id"`

	// ExternalID is the identity provider's user identifier.
	// Unique and immutable once set; the webhook and just-in-time sync
	// paths both key on it.
	ExternalID string `json:"external_id"`

	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

// DisplayName returns the user's name for presentation, falling back to the
// email address when no name was provided by the identity provider.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}
