package domain

import "time"

// ConnectionType describes how a user relates to someone else's memory.
type ConnectionType string

// The supported connection types.
const (
	// ConnectionRemember means "I remember this too".
	ConnectionRemember ConnectionType = "remember"
	// ConnectionRelate means the memory resonates without being shared.
	ConnectionRelate ConnectionType = "relate"
	// ConnectionExperienced means the user was there.
	ConnectionExperienced ConnectionType = "experienced"
)

// Valid reports whether t is a supported connection type.
func (t ConnectionType) Valid() bool {
	switch t {
	case ConnectionRemember, ConnectionRelate, ConnectionExperienced:
		return true
	}
	return false
}

// MaxNoteLength bounds the optional note on a connection.
const MaxNoteLength = 500

// MemoryConnection records one user's acknowledgment of another's memory.
// At most one connection per (memory, user, type) tuple exists.
type MemoryConnection struct {
	ID             string         `json:"id"`
	MemoryID       string         `json:"memory_id"`
	UserID         string         `json:"user_id"`
	ExternalUserID string         `json:"external_user_id"`
	ConnectionType ConnectionType `json:"connection_type"`
	Note           string         `json:"note,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
