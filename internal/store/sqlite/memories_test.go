package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rememberthis/remember-server/internal/domain"
	"github.com/rememberthis/remember-server/internal/store"
)

// makeTestMemory creates a public domain.Memory owned by the given user.
func makeTestMemory(id, userID, externalUserID, title string) *domain.Memory {
	now := time.Now().UTC()
	return &domain.Memory{
		ID:             id,
		UserID:         userID,
		ExternalUserID: externalUserID,
		Title:          title,
		Description:    "A description of " + title,
		Category:       domain.CategoryMoment,
		IsPublic:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// seedUser creates a user so memory foreign keys resolve.
func seedUser(t *testing.T, s *Store, id, externalID string) {
	t.Helper()
	if err := s.CreateUser(context.Background(), makeTestUser(id, externalID, id+"@example.com")); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func TestCreateAndGetMemory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")

	m := makeTestMemory("mem-1", "user-1", "ext-1", "Grandma's kitchen")
	m.Category = domain.CategoryPlace
	m.Timeframe = "Summer 1998"
	m.Tags = []string{"family", "food"}
	m.ImageURL = "https://example.com/kitchen.jpg"
	m.IsPublic = false

	if err := s.CreateMemory(ctx, m); err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}

	got, err := s.GetMemory(ctx, "mem-1")
	if err != nil {
		t.Fatalf("GetMemory: %v", err)
	}

	if got.Title != "Grandma's kitchen" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.Category != domain.CategoryPlace {
		t.Errorf("Category: got %q, want %q", got.Category, domain.CategoryPlace)
	}
	if got.Timeframe != "Summer 1998" {
		t.Errorf("Timeframe: got %q", got.Timeframe)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "family" || got.Tags[1] != "food" {
		t.Errorf("Tags: got %v", got.Tags)
	}
	if got.ImageURL != "https://example.com/kitchen.jpg" {
		t.Errorf("ImageURL: got %q", got.ImageURL)
	}
	if got.IsPublic {
		t.Error("IsPublic: expected false")
	}
	if got.ExternalUserID != "ext-1" {
		t.Errorf("ExternalUserID: got %q", got.ExternalUserID)
	}
	if !got.CreatedAt.Equal(m.CreatedAt) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, m.CreatedAt)
	}
}

func TestGetMemoryEmptyOptionals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")

	m := makeTestMemory("mem-1", "user-1", "ext-1", "Minimal")
	if err := s.CreateMemory(ctx, m); err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}

	got, err := s.GetMemory(ctx, "mem-1")
	if err != nil {
		t.Fatalf("GetMemory: %v", err)
	}
	if got.Timeframe != "" {
		t.Errorf("Timeframe: got %q, want empty", got.Timeframe)
	}
	if got.Tags != nil {
		t.Errorf("Tags: got %v, want nil", got.Tags)
	}
	if got.ImageURL != "" {
		t.Errorf("ImageURL: got %q, want empty", got.ImageURL)
	}
}

func TestGetMemoryNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetMemory(context.Background(), "mem-nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateMemoryDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")

	if err := s.CreateMemory(ctx, makeTestMemory("mem-1", "user-1", "ext-1", "First")); err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}
	err := s.CreateMemory(ctx, makeTestMemory("mem-1", "user-1", "ext-1", "Second"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListPublicMemoriesOrderAndVisibility(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")

	base := time.Now().UTC().Add(-time.Hour)
	for i, spec := range []struct {
		id     string
		public bool
	}{
		{"mem-1", true},
		{"mem-2", false},
		{"mem-3", true},
	} {
		m := makeTestMemory(spec.id, "user-1", "ext-1", "Memory "+spec.id)
		m.IsPublic = spec.public
		m.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		m.UpdatedAt = m.CreatedAt
		if err := s.CreateMemory(ctx, m); err != nil {
			t.Fatalf("CreateMemory %s: %v", spec.id, err)
		}
	}

	got, err := s.ListPublicMemories(ctx, 0)
	if err != nil {
		t.Fatalf("ListPublicMemories: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 public memories, got %d", len(got))
	}
	// Newest first, private mem-2 excluded.
	if got[0].ID != "mem-3" || got[1].ID != "mem-1" {
		t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestListPublicMemoriesLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		m := makeTestMemory("mem-"+string(rune('a'+i)), "user-1", "ext-1", "Memory")
		m.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		m.UpdatedAt = m.CreatedAt
		if err := s.CreateMemory(ctx, m); err != nil {
			t.Fatalf("CreateMemory: %v", err)
		}
	}

	got, err := s.ListPublicMemories(ctx, 2)
	if err != nil {
		t.Fatalf("ListPublicMemories: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 memories, got %d", len(got))
	}
}

func TestListMemoriesByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")
	seedUser(t, s, "user-2", "ext-2")

	m1 := makeTestMemory("mem-1", "user-1", "ext-1", "Mine")
	m1.IsPublic = false
	m2 := makeTestMemory("mem-2", "user-2", "ext-2", "Theirs")
	for _, m := range []*domain.Memory{m1, m2} {
		if err := s.CreateMemory(ctx, m); err != nil {
			t.Fatalf("CreateMemory: %v", err)
		}
	}

	got, err := s.ListMemoriesByUser(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("ListMemoriesByUser: %v", err)
	}
	if len(got) != 1 || got[0].ID != "mem-1" {
		t.Fatalf("expected only mem-1, got %v", got)
	}
	// Private memories are included in the owner's own listing.
	if got[0].IsPublic {
		t.Error("expected private memory in owner listing")
	}
}

func TestSearchMemories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")

	base := time.Now().UTC().Add(-time.Hour)
	titleMatch := makeTestMemory("mem-1", "user-1", "ext-1", "Summer at the lake")
	titleMatch.Description = "Long days by the water"
	descMatch := makeTestMemory("mem-2", "user-1", "ext-1", "The old cabin")
	descMatch.Description = "We spent every summer there"
	tagMatch := makeTestMemory("mem-3", "user-1", "ext-1", "Fireflies")
	tagMatch.Description = "Jars in the yard"
	tagMatch.Tags = []string{"summer", "night"}
	noMatch := makeTestMemory("mem-4", "user-1", "ext-1", "Winter morning")
	noMatch.Description = "Snow on the fence"
	privateMatch := makeTestMemory("mem-5", "user-1", "ext-1", "Secret summer")
	privateMatch.IsPublic = false

	for i, m := range []*domain.Memory{titleMatch, descMatch, tagMatch, noMatch, privateMatch} {
		m.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		m.UpdatedAt = m.CreatedAt
		if err := s.CreateMemory(ctx, m); err != nil {
			t.Fatalf("CreateMemory %s: %v", m.ID, err)
		}
	}

	got, err := s.SearchMemories(ctx, "Summer", 0)
	if err != nil {
		t.Fatalf("SearchMemories: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	// Newest first across title, description, and tag matches;
	// private mem-5 stays hidden.
	if got[0].ID != "mem-3" || got[1].ID != "mem-2" || got[2].ID != "mem-1" {
		t.Errorf("unexpected order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSearchMemoriesEscapesWildcards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")

	m := makeTestMemory("mem-1", "user-1", "ext-1", "100% recall")
	if err := s.CreateMemory(ctx, m); err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}

	got, err := s.SearchMemories(ctx, "0% re", 0)
	if err != nil {
		t.Fatalf("SearchMemories: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected literal %% match, got %d results", len(got))
	}

	got, err = s.SearchMemories(ctx, "0%x", 0)
	if err != nil {
		t.Fatalf("SearchMemories: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results, %% must not act as a wildcard")
	}
}

func TestUpdateMemory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")

	m := makeTestMemory("mem-1", "user-1", "ext-1", "Before")
	m.Tags = []string{"one"}
	if err := s.CreateMemory(ctx, m); err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}

	title := "After"
	isPublic := false
	tags := []string{"two", "three"}
	got, err := s.UpdateMemory(ctx, "mem-1", store.MemoryUpdate{
		Title:    &title,
		IsPublic: &isPublic,
		Tags:     &tags,
	})
	if err != nil {
		t.Fatalf("UpdateMemory: %v", err)
	}

	if got.Title != "After" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.IsPublic {
		t.Error("IsPublic: expected false")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "two" {
		t.Errorf("Tags: got %v", got.Tags)
	}
	// Untouched fields survive a partial update.
	if got.Description != m.Description {
		t.Errorf("Description changed: got %q", got.Description)
	}
	if got.Category != domain.CategoryMoment {
		t.Errorf("Category changed: got %q", got.Category)
	}
	if !got.UpdatedAt.After(m.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed: %v <= %v", got.UpdatedAt, m.UpdatedAt)
	}
}

func TestUpdateMemoryNotFound(t *testing.T) {
	s := newTestStore(t)

	title := "x"
	_, err := s.UpdateMemory(context.Background(), "mem-nope", store.MemoryUpdate{Title: &title})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMemory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")

	if err := s.CreateMemory(ctx, makeTestMemory("mem-1", "user-1", "ext-1", "Gone soon")); err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}

	if err := s.DeleteMemory(ctx, "mem-1"); err != nil {
		t.Fatalf("DeleteMemory: %v", err)
	}

	_, err := s.GetMemory(ctx, "mem-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.DeleteMemory(ctx, "mem-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteUserCascadesMemories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "ext-1")

	if err := s.CreateMemory(ctx, makeTestMemory("mem-1", "user-1", "ext-1", "Cascades")); err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}

	if err := s.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	_, err := s.GetMemory(ctx, "mem-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected memory cascade delete, got %v", err)
	}
}
