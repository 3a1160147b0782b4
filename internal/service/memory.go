package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rememberthis/remember-server/internal/domain"
	"github.com/rememberthis/remember-server/internal/errors"
	"github.com/rememberthis/remember-server/internal/id"
	"github.com/rememberthis/remember-server/internal/identity"
	"github.com/rememberthis/remember-server/internal/store"
	"github.com/rememberthis/remember-server/internal/validation"
)

// SubmitMemoryInput is a new memory submission.
type SubmitMemoryInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=1000"`
	Category    string   `json:"category" validate:"required,memorycategory"`
	Timeframe   string   `json:"timeframe" validate:"omitempty,max=100"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url,max=500"`
	IsPublic    *bool    `json:"is_public"`
}

// UpdateMemoryInput is a partial edit of an existing memory.
// Nil fields are left untouched.
type UpdateMemoryInput struct {
	Title       *string   `json:"title" validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	Category    *string   `json:"category" validate:"omitempty,memorycategory"`
	Timeframe   *string   `json:"timeframe" validate:"omitempty,max=100"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
	ImageURL    *string   `json:"image_url" validate:"omitempty,url,max=500"`
	IsPublic    *bool     `json:"is_public"`
}

// ConnectInput is a reaction to someone's memory.
type ConnectInput struct {
	ConnectionType string `json:"connection_type" validate:"required,connectiontype"`
	Note           string `json:"note" validate:"omitempty,max=500"`
}

// MemoryService owns the memory lifecycle: submission, browsing,
// editing, and connections between users and memories.
type MemoryService struct {
	store     store.Store
	identity  *IdentityService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewMemoryService creates a new memory service.
func NewMemoryService(st store.Store, identitySvc *IdentityService, v *validation.Validator, logger *slog.Logger) *MemoryService {
	return &MemoryService{
		store:     st,
		identity:  identitySvc,
		validator: v,
		logger:    logger,
	}
}

// Submit validates and stores a new memory for the authenticated caller,
// creating their local user row just in time when needed.
func (s *MemoryService) Submit(ctx context.Context, ident *identity.Identity, input SubmitMemoryInput) (*domain.Memory, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.identity.EnsureUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	memory := &domain.Memory{
		ID:             id.MustGenerate(id.PrefixMemory),
		UserID:         user.ID,
		ExternalUserID: user.ExternalID,
		Title:          input.Title,
		Description:    input.Description,
		Category:       domain.Category(input.Category),
		Timeframe:      input.Timeframe,
		Tags:           input.Tags,
		ImageURL:       input.ImageURL,
		IsPublic:       isPublic,
	}
	memory.Touch()
	memory.CreatedAt = memory.UpdatedAt

	if err := s.store.CreateMemory(ctx, memory); err != nil {
		return nil, errors.Internal("create memory").WithCause(err)
	}

	s.logger.Info("memory submitted",
		"memory_id", memory.ID, "user_id", user.ID, "category", memory.Category)
	return memory, nil
}

// Feed returns the public feed, newest first.
func (s *MemoryService) Feed(ctx context.Context, limit int) ([]*domain.Memory, error) {
	memories, err := s.store.ListPublicMemories(ctx, limit)
	if err != nil {
		return nil, errors.Internal("list public memories").WithCause(err)
	}
	return memories, nil
}

// Search returns public memories matching the query, newest first.
// An empty query falls back to the plain feed.
func (s *MemoryService) Search(ctx context.Context, query string, limit int) ([]*domain.Memory, error) {
	if query == "" {
		return s.Feed(ctx, limit)
	}
	memories, err := s.store.SearchMemories(ctx, query, limit)
	if err != nil {
		return nil, errors.Internal("search memories").WithCause(err)
	}
	return memories, nil
}

// Get returns a single memory. Private memories are visible only to their
// owner; everyone else gets not-found rather than a confirmation the
// memory exists.
func (s *MemoryService) Get(ctx context.Context, memoryID string, ident *identity.Identity) (*domain.Memory, error) {
	memory, err := s.getMemory(ctx, memoryID)
	if err != nil {
		return nil, err
	}
	if !memory.IsPublic && (ident == nil || !memory.OwnedBy(ident.ExternalID)) {
		return nil, errors.NotFound("memory not found")
	}
	return memory, nil
}

// ListByUser returns the authenticated caller's own memories, public and
// private, newest first.
func (s *MemoryService) ListByUser(ctx context.Context, ident *identity.Identity, limit int) ([]*domain.Memory, error) {
	user, err := s.identity.GetByExternalID(ctx, ident.ExternalID)
	if err != nil {
		return nil, err
	}
	memories, err := s.store.ListMemoriesByUser(ctx, user.ID, limit)
	if err != nil {
		return nil, errors.Internal("list user memories").WithCause(err)
	}
	return memories, nil
}

// Update applies a partial edit to the caller's own memory.
func (s *MemoryService) Update(ctx context.Context, memoryID string, ident *identity.Identity, input UpdateMemoryInput) (*domain.Memory, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	memory, err := s.getMemory(ctx, memoryID)
	if err != nil {
		return nil, err
	}
	if !memory.OwnedBy(ident.ExternalID) {
		return nil, errors.Forbidden("only the owner can edit a memory")
	}

	update := store.MemoryUpdate{
		Title:       input.Title,
		Description: input.Description,
		Timeframe:   input.Timeframe,
		Tags:        input.Tags,
		ImageURL:    input.ImageURL,
		IsPublic:    input.IsPublic,
	}
	if input.Category != nil {
		cat := domain.Category(*input.Category)
		update.Category = &cat
	}

	updated, err := s.store.UpdateMemory(ctx, memoryID, update)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("memory not found")
	}
	if err != nil {
		return nil, errors.Internal("update memory").WithCause(err)
	}

	s.logger.Info("memory updated", "memory_id", memoryID)
	return updated, nil
}

// Delete removes the caller's own memory and, through the schema's
// cascades, all connections made to it.
func (s *MemoryService) Delete(ctx context.Context, memoryID string, ident *identity.Identity) error {
	memory, err := s.getMemory(ctx, memoryID)
	if err != nil {
		return err
	}
	if !memory.OwnedBy(ident.ExternalID) {
		return errors.Forbidden("only the owner can delete a memory")
	}

	if err := s.store.DeleteMemory(ctx, memoryID); err != nil {
		return errors.Internal("delete memory").WithCause(err)
	}

	s.logger.Info("memory deleted", "memory_id", memoryID)
	return nil
}

// Connect records the caller's reaction to a memory. Reacting twice with
// the same type is a conflict; connecting to your own memory is allowed.
func (s *MemoryService) Connect(ctx context.Context, memoryID string, ident *identity.Identity, input ConnectInput) (*domain.MemoryConnection, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	memory, err := s.Get(ctx, memoryID, ident)
	if err != nil {
		return nil, err
	}

	user, err := s.identity.EnsureUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	conn := &domain.MemoryConnection{
		ID:             id.MustGenerate(id.PrefixConnection),
		MemoryID:       memory.ID,
		UserID:         user.ID,
		ExternalUserID: user.ExternalID,
		ConnectionType: domain.ConnectionType(input.ConnectionType),
		Note:           input.Note,
		CreatedAt:      time.Now().UTC(),
	}

	err = s.store.CreateConnection(ctx, conn)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, errors.Conflict("you already reacted to this memory with that type")
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("memory not found")
	}
	if err != nil {
		return nil, errors.Internal("create connection").WithCause(err)
	}

	s.logger.Info("connection created",
		"connection_id", conn.ID, "memory_id", memory.ID, "type", conn.ConnectionType)
	return conn, nil
}

// ConnectionsForMemory lists reactions on a memory the caller can see.
func (s *MemoryService) ConnectionsForMemory(ctx context.Context, memoryID string, ident *identity.Identity) ([]*domain.MemoryConnection, error) {
	if _, err := s.Get(ctx, memoryID, ident); err != nil {
		return nil, err
	}
	conns, err := s.store.ListConnectionsForMemory(ctx, memoryID)
	if err != nil {
		return nil, errors.Internal("list connections").WithCause(err)
	}
	return conns, nil
}

// ConnectionsForUser lists the caller's own reactions.
func (s *MemoryService) ConnectionsForUser(ctx context.Context, ident *identity.Identity) ([]*domain.MemoryConnection, error) {
	user, err := s.identity.GetByExternalID(ctx, ident.ExternalID)
	if err != nil {
		return nil, err
	}
	conns, err := s.store.ListConnectionsForUser(ctx, user.ID)
	if err != nil {
		return nil, errors.Internal("list connections").WithCause(err)
	}
	return conns, nil
}

// getMemory fetches a memory, mapping store not-found to a domain error.
func (s *MemoryService) getMemory(ctx context.Context, memoryID string) (*domain.Memory, error) {
	memory, err := s.store.GetMemory(ctx, memoryID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("memory not found")
	}
	if err != nil {
		return nil, errors.Internal("get memory").WithCause(err)
	}
	return memory, nil
}
