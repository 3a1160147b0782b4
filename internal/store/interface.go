// Package store defines the persistence interface for the Remember This server.
package store

import (
	"context"

	"github.com/rememberthis/remember-server/internal/domain"
)

// Default and maximum bounds for list operations.
const (
	DefaultUserMemoryLimit = 20
	DefaultFeedLimit       = 50
	DefaultSearchLimit     = 20
	MaxListLimit           = 100
)

// UserUpdate describes a partial update to a user record.
// Nil fields are left unchanged.
type UserUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// MemoryUpdate describes a partial update to a memory record.
// Nil fields are left unchanged.
type MemoryUpdate struct {
	Title       *string
	Description *string
	Category    *domain.Category
	Timeframe   *string
	Tags        *[]string
	ImageURL    *string
	IsPublic    *bool
}

// Store defines the interface for all persistence operations.
// Every other component routes storage access through it.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	UpdateUser(ctx context.Context, externalID string, update UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// Memories
	CreateMemory(ctx context.Context, memory *domain.Memory) error
	GetMemory(ctx context.Context, id string) (*domain.Memory, error)
	ListMemoriesByUser(ctx context.Context, userID string, limit int) ([]*domain.Memory, error)
	ListPublicMemories(ctx context.Context, limit int) ([]*domain.Memory, error)
	SearchMemories(ctx context.Context, query string, limit int) ([]*domain.Memory, error)
	UpdateMemory(ctx context.Context, id string, update MemoryUpdate) (*domain.Memory, error)
	DeleteMemory(ctx context.Context, id string) error

	// Memory connections
	CreateConnection(ctx context.Context, conn *domain.MemoryConnection) error
	ListConnectionsForMemory(ctx context.Context, memoryID string) ([]*domain.MemoryConnection, error)
	ListConnectionsForUser(ctx context.Context, userID string) ([]*domain.MemoryConnection, error)
}
