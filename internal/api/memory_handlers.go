package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rememberthis/remember-server/internal/domain"
	"github.com/rememberthis/remember-server/internal/service"
)

func (s *Server) registerMemoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "submitMemory",
		Method:      http.MethodPost,
		Path:        "/api/v1/memories",
		Summary:     "Submit memory",
		Description: "Creates a new memory for the authenticated user",
		Tags:        []string{"Memories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSubmitMemory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/memories",
		Summary:     "Public feed",
		Description: "Returns public memories, newest first",
		Tags:        []string{"Memories"},
	}, s.handleListFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchMemories",
		Method:      http.MethodGet,
		Path:        "/api/v1/memories/search",
		Summary:     "Search memories",
		Description: "Returns public memories matching the query, newest first",
		Tags:        []string{"Memories"},
	}, s.handleSearchMemories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMemory",
		Method:      http.MethodGet,
		Path:        "/api/v1/memories/{id}",
		Summary:     "Get memory",
		Description: "Returns a memory by ID; private memories only for their owner",
		Tags:        []string{"Memories"},
	}, s.handleGetMemory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMemory",
		Method:      http.MethodPatch,
		Path:        "/api/v1/memories/{id}",
		Summary:     "Update memory",
		Description: "Applies a partial edit to the caller's own memory",
		Tags:        []string{"Memories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMemory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMemory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/memories/{id}",
		Summary:     "Delete memory",
		Description: "Deletes the caller's own memory and its connections",
		Tags:        []string{"Memories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMemory)
}

// === DTOs ===

type MemoryResponse struct {
	ID             string    `json:"id" doc:"Memory ID"`
	Title          string    `json:"title" doc:"Title"`
	Description    string    `json:"description" doc:"Description"`
	Category       string    `json:"category" doc:"Category: Person, Place, Thing, Moment, or Picture"`
	Timeframe      string    `json:"timeframe,omitempty" doc:"When the memory happened, free text"`
	Tags           []string  `json:"tags,omitempty" doc:"Tags"`
	ImageURL       string    `json:"image_url,omitempty" doc:"Attached image URL"`
	IsPublic       bool      `json:"is_public" doc:"Whether the memory appears in the public feed"`
	ExternalUserID string    `json:"external_user_id" doc:"Owner's identity provider ID"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update time"`
}

type SubmitMemoryRequest struct {
	Title       string   `json:"title" maxLength:"200" doc:"Title"`
	Description string   `json:"description" maxLength:"1000" doc:"Description"`
	Category    string   `json:"category" doc:"Category: Person, Place, Thing, Moment, or Picture"`
	Timeframe   string   `json:"timeframe,omitempty" maxLength:"100" doc:"When the memory happened, free text"`
	Tags        []string `json:"tags,omitempty" doc:"Tags"`
	ImageURL    string   `json:"image_url,omitempty" maxLength:"500" doc:"Attached image URL"`
	IsPublic    *bool    `json:"is_public,omitempty" doc:"Public flag, defaults to true"`
}

type SubmitMemoryInput struct {
	Body SubmitMemoryRequest
}

type MemoryOutput struct {
	Body MemoryResponse
}

type ListFeedInput struct {
	Limit int `query:"limit" doc:"Maximum results, capped at 100"`
}

type ListMemoriesResponse struct {
	Memories []MemoryResponse `json:"memories" doc:"List of memories"`
}

type ListMemoriesOutput struct {
	Body ListMemoriesResponse
}

type SearchMemoriesInput struct {
	Query string `query:"q" doc:"Search text, matched against title, description, and tags"`
	Limit int    `query:"limit" doc:"Maximum results, capped at 100"`
}

type GetMemoryInput struct {
	ID string `path:"id" doc:"Memory ID"`
}

type UpdateMemoryRequest struct {
	Title       *string   `json:"title,omitempty" maxLength:"200" doc:"Title"`
	Description *string   `json:"description,omitempty" maxLength:"1000" doc:"Description"`
	Category    *string   `json:"category,omitempty" doc:"Category"`
	Timeframe   *string   `json:"timeframe,omitempty" maxLength:"100" doc:"Timeframe"`
	Tags        *[]string `json:"tags,omitempty" doc:"Tags; replaces the whole list"`
	ImageURL    *string   `json:"image_url,omitempty" maxLength:"500" doc:"Image URL"`
	IsPublic    *bool     `json:"is_public,omitempty" doc:"Public flag"`
}

type UpdateMemoryInput struct {
	ID   string `path:"id" doc:"Memory ID"`
	Body UpdateMemoryRequest
}

type DeleteMemoryInput struct {
	ID string `path:"id" doc:"Memory ID"`
}

// === Handlers ===

func (s *Server) handleSubmitMemory(ctx context.Context, input *SubmitMemoryInput) (*MemoryOutput, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if !s.submitLimiter.Allow(ident.ExternalID) {
		return nil, huma.Error429TooManyRequests("Too many submissions, slow down")
	}

	memory, err := s.services.Memory.Submit(ctx, ident, service.SubmitMemoryInput{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Category:    input.Body.Category,
		Timeframe:   input.Body.Timeframe,
		Tags:        input.Body.Tags,
		ImageURL:    input.Body.ImageURL,
		IsPublic:    input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}

	return &MemoryOutput{Body: mapMemoryResponse(memory)}, nil
}

func (s *Server) handleListFeed(ctx context.Context, input *ListFeedInput) (*ListMemoriesOutput, error) {
	memories, err := s.services.Memory.Feed(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &ListMemoriesOutput{Body: mapMemoryList(memories)}, nil
}

func (s *Server) handleSearchMemories(ctx context.Context, input *SearchMemoriesInput) (*ListMemoriesOutput, error) {
	memories, err := s.services.Memory.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	return &ListMemoriesOutput{Body: mapMemoryList(memories)}, nil
}

func (s *Server) handleGetMemory(ctx context.Context, input *GetMemoryInput) (*MemoryOutput, error) {
	memory, err := s.services.Memory.Get(ctx, input.ID, GetIdentity(ctx))
	if err != nil {
		return nil, err
	}
	return &MemoryOutput{Body: mapMemoryResponse(memory)}, nil
}

func (s *Server) handleUpdateMemory(ctx context.Context, input *UpdateMemoryInput) (*MemoryOutput, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	memory, err := s.services.Memory.Update(ctx, input.ID, ident, service.UpdateMemoryInput{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Category:    input.Body.Category,
		Timeframe:   input.Body.Timeframe,
		Tags:        input.Body.Tags,
		ImageURL:    input.Body.ImageURL,
		IsPublic:    input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}

	return &MemoryOutput{Body: mapMemoryResponse(memory)}, nil
}

func (s *Server) handleDeleteMemory(ctx context.Context, input *DeleteMemoryInput) (*MessageOutput, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Memory.Delete(ctx, input.ID, ident); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Memory deleted"}}, nil
}

// === Mappers ===

func mapMemoryResponse(m *domain.Memory) MemoryResponse {
	return MemoryResponse{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		Category:       string(m.Category),
		Timeframe:      m.Timeframe,
		Tags:           m.Tags,
		ImageURL:       m.ImageURL,
		IsPublic:       m.IsPublic,
		ExternalUserID: m.ExternalUserID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func mapMemoryList(memories []*domain.Memory) ListMemoriesResponse {
	resp := make([]MemoryResponse, len(memories))
	for i, m := range memories {
		resp[i] = mapMemoryResponse(m)
	}
	return ListMemoriesResponse{Memories: resp}
}
