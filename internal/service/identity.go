// Package service contains the application's business logic, sitting
// between the HTTP handlers and the store.
package service

import (
	"context"
	"log/slog"

	"github.com/rememberthis/remember-server/internal/domain"
	"github.com/rememberthis/remember-server/internal/errors"
	"github.com/rememberthis/remember-server/internal/id"
	"github.com/rememberthis/remember-server/internal/identity"
	"github.com/rememberthis/remember-server/internal/store"
)

// IdentityService mirrors identity provider accounts into local User rows.
// Rows arrive two ways: webhook events from the provider, and just-in-time
// creation when an authenticated caller submits before their webhook lands.
type IdentityService struct {
	store  store.Store
	logger *slog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(st store.Store, logger *slog.Logger) *IdentityService {
	return &IdentityService{
		store:  st,
		logger: logger,
	}
}

// HandleUserCreated mirrors a provider user.created event.
// A duplicate delivery (or a race with just-in-time creation) finds the
// row already present; the event is then applied as an update instead.
func (s *IdentityService) HandleUserCreated(ctx context.Context, eu identity.EventUser) (*domain.User, error) {
	user := &domain.User{
		ID:         id.MustGenerate(id.PrefixUser),
		ExternalID: eu.ID,
		Email:      eu.PrimaryEmail(),
		FirstName:  eu.FirstName,
		LastName:   eu.LastName,
	}
	user.Touch()
	user.CreatedAt = user.UpdatedAt

	err := s.store.CreateUser(ctx, user)
	if errors.Is(err, store.ErrAlreadyExists) {
		s.logger.Info("user already mirrored, applying event as update",
			"external_id", eu.ID)
		return s.HandleUserUpdated(ctx, eu)
	}
	if err != nil {
		return nil, errors.Internal("create user").WithCause(err)
	}

	s.logger.Info("user mirrored from identity provider",
		"user_id", user.ID, "external_id", eu.ID)
	return user, nil
}

// HandleUserUpdated mirrors a provider user.updated event.
// When no local row exists the event is dropped: the user has never
// touched this service and the next create path will pick up fresh details.
func (s *IdentityService) HandleUserUpdated(ctx context.Context, eu identity.EventUser) (*domain.User, error) {
	update := store.UserUpdate{}
	if email := eu.PrimaryEmail(); email != "" {
		update.Email = &email
	}
	if eu.FirstName != "" {
		update.FirstName = &eu.FirstName
	}
	if eu.LastName != "" {
		update.LastName = &eu.LastName
	}

	user, err := s.store.UpdateUser(ctx, eu.ID, update)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Info("update event for unknown user, skipping", "external_id", eu.ID)
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal("update user").WithCause(err)
	}
	return user, nil
}

// EnsureUser returns the local row for an authenticated identity,
// creating it just in time when the provider webhook has not arrived yet.
// An identity without an email cannot be mirrored.
func (s *IdentityService) EnsureUser(ctx context.Context, ident *identity.Identity) (*domain.User, error) {
	user, err := s.store.GetUserByExternalID(ctx, ident.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Internal("look up user").WithCause(err)
	}

	if ident.Email == "" {
		return nil, errors.NotFound("no local account and identity has no email address")
	}

	user = &domain.User{
		ID:         id.MustGenerate(id.PrefixUser),
		ExternalID: ident.ExternalID,
		Email:      ident.Email,
		FirstName:  ident.FirstName,
		LastName:   ident.LastName,
	}
	user.Touch()
	user.CreatedAt = user.UpdatedAt

	err = s.store.CreateUser(ctx, user)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with the webhook; the row is there now.
		return s.store.GetUserByExternalID(ctx, ident.ExternalID)
	}
	if err != nil {
		return nil, errors.Internal("create user").WithCause(err)
	}

	s.logger.Info("user created just in time",
		"user_id", user.ID, "external_id", ident.ExternalID)
	return user, nil
}

// GetByExternalID returns the local user row for an external identity.
func (s *IdentityService) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	user, err := s.store.GetUserByExternalID(ctx, externalID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("user not found")
	}
	if err != nil {
		return nil, errors.Internal("look up user").WithCause(err)
	}
	return user, nil
}
