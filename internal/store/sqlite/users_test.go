package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rememberthis/remember-server/internal/domain"
	"github.com/rememberthis/remember-server/internal/store"
)

// makeTestUser creates a domain.User with sensible defaults for testing.
func makeTestUser(id, externalID, email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:         id,
		ExternalID: externalID,
		Email:      email,
		FirstName:  "Test",
		LastName:   "User",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-1", "ext-1", "alice@example.com")

	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if got.ID != user.ID {
		t.Errorf("ID: got %q, want %q", got.ID, user.ID)
	}
	if got.ExternalID != "ext-1" {
		t.Errorf("ExternalID: got %q, want %q", got.ExternalID, "ext-1")
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Email: got %q, want %q", got.Email, "alice@example.com")
	}
	if got.FirstName != "Test" {
		t.Errorf("FirstName: got %q, want %q", got.FirstName, "Test")
	}
	if got.LastName != "User" {
		t.Errorf("LastName: got %q, want %q", got.LastName, "User")
	}

	// Timestamps should round-trip through RFC3339Nano.
	if !got.CreatedAt.Equal(user.CreatedAt) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, user.CreatedAt)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUserByExternalID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-1", "ext-abc", "bob@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUserByExternalID(ctx, "ext-abc")
	if err != nil {
		t.Fatalf("GetUserByExternalID: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID: got %q, want %q", got.ID, "user-1")
	}

	_, err = s.GetUserByExternalID(ctx, "ext-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUserDuplicateExternalID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "ext-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err := s.CreateUser(ctx, makeTestUser("user-2", "ext-1", "b@example.com"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-1", "ext-1", "old@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	email := "new@example.com"
	first := "Alice"
	got, err := s.UpdateUser(ctx, "ext-1", store.UserUpdate{
		Email:     &email,
		FirstName: &first,
	})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	if got.Email != "new@example.com" {
		t.Errorf("Email: got %q, want %q", got.Email, "new@example.com")
	}
	if got.FirstName != "Alice" {
		t.Errorf("FirstName: got %q, want %q", got.FirstName, "Alice")
	}
	// Untouched fields survive a partial update.
	if got.LastName != "User" {
		t.Errorf("LastName: got %q, want %q", got.LastName, "User")
	}
	if !got.UpdatedAt.After(user.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed: %v <= %v", got.UpdatedAt, user.UpdatedAt)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	s := newTestStore(t)

	email := "x@example.com"
	_, err := s.UpdateUser(context.Background(), "ext-missing", store.UserUpdate{Email: &email})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "ext-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := s.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	_, err := s.GetUser(ctx, "user-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.DeleteUser(ctx, "user-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"user-1", "user-2", "user-3"} {
		u := makeTestUser(id, "ext-"+id, id+"@example.com")
		u.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		u.UpdatedAt = u.CreatedAt
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser %s: %v", id, err)
		}
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	// Newest first.
	if users[0].ID != "user-3" || users[2].ID != "user-1" {
		t.Errorf("unexpected order: %s, %s, %s", users[0].ID, users[1].ID, users[2].ID)
	}
}
