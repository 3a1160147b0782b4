package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rememberthis/remember-server/internal/domain"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the caller's local user record",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyMemories",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/memories",
		Summary:     "List my memories",
		Description: "Returns the caller's own memories, public and private, newest first",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyMemories)
}

// === DTOs ===

type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	ExternalID  string    `json:"external_id" doc:"Identity provider ID"`
	Email       string    `json:"email" doc:"Email address"`
	FirstName   string    `json:"first_name,omitempty" doc:"First name"`
	LastName    string    `json:"last_name,omitempty" doc:"Last name"`
	DisplayName string    `json:"display_name" doc:"Name to show, falls back to email"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

type UserOutput struct {
	Body UserResponse
}

type ListMyMemoriesInput struct {
	Limit int `query:"limit" doc:"Maximum results, capped at 100"`
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Identity.GetByExternalID(ctx, ident.ExternalID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleListMyMemories(ctx context.Context, input *ListMyMemoriesInput) (*ListMemoriesOutput, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	memories, err := s.services.Memory.ListByUser(ctx, ident, input.Limit)
	if err != nil {
		return nil, err
	}

	return &ListMemoriesOutput{Body: mapMemoryList(memories)}, nil
}

// === Mappers ===

func mapUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		ExternalID:  u.ExternalID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
