package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rememberthis/remember-server/internal/domain"
	"github.com/rememberthis/remember-server/internal/service"
)

func (s *Server) registerConnectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "connectToMemory",
		Method:      http.MethodPost,
		Path:        "/api/v1/memories/{id}/connections",
		Summary:     "Connect to memory",
		Description: "Records the caller's reaction to a memory",
		Tags:        []string{"Connections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleConnectToMemory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMemoryConnections",
		Method:      http.MethodGet,
		Path:        "/api/v1/memories/{id}/connections",
		Summary:     "List memory connections",
		Description: "Returns reactions on a memory, newest first",
		Tags:        []string{"Connections"},
	}, s.handleListMemoryConnections)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyConnections",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/connections",
		Summary:     "List my connections",
		Description: "Returns the caller's own reactions, newest first",
		Tags:        []string{"Connections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyConnections)
}

// === DTOs ===

type ConnectionResponse struct {
	ID             string    `json:"id" doc:"Connection ID"`
	MemoryID       string    `json:"memory_id" doc:"Memory reacted to"`
	ConnectionType string    `json:"connection_type" doc:"Reaction type: remember, relate, or experienced"`
	Note           string    `json:"note,omitempty" doc:"Optional note"`
	ExternalUserID string    `json:"external_user_id" doc:"Reacting user's identity provider ID"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation time"`
}

type ConnectRequest struct {
	ConnectionType string `json:"connection_type" doc:"Reaction type: remember, relate, or experienced"`
	Note           string `json:"note,omitempty" maxLength:"500" doc:"Optional note"`
}

type ConnectInput struct {
	ID   string `path:"id" doc:"Memory ID"`
	Body ConnectRequest
}

type ConnectionOutput struct {
	Body ConnectionResponse
}

type ListMemoryConnectionsInput struct {
	ID string `path:"id" doc:"Memory ID"`
}

type ListConnectionsResponse struct {
	Connections []ConnectionResponse `json:"connections" doc:"List of connections"`
}

type ListConnectionsOutput struct {
	Body ListConnectionsResponse
}

// === Handlers ===

func (s *Server) handleConnectToMemory(ctx context.Context, input *ConnectInput) (*ConnectionOutput, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if !s.submitLimiter.Allow(ident.ExternalID) {
		return nil, huma.Error429TooManyRequests("Too many submissions, slow down")
	}

	conn, err := s.services.Memory.Connect(ctx, input.ID, ident, service.ConnectInput{
		ConnectionType: input.Body.ConnectionType,
		Note:           input.Body.Note,
	})
	if err != nil {
		return nil, err
	}

	return &ConnectionOutput{Body: mapConnectionResponse(conn)}, nil
}

func (s *Server) handleListMemoryConnections(ctx context.Context, input *ListMemoryConnectionsInput) (*ListConnectionsOutput, error) {
	conns, err := s.services.Memory.ConnectionsForMemory(ctx, input.ID, GetIdentity(ctx))
	if err != nil {
		return nil, err
	}
	return &ListConnectionsOutput{Body: mapConnectionList(conns)}, nil
}

func (s *Server) handleListMyConnections(ctx context.Context, _ *struct{}) (*ListConnectionsOutput, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	conns, err := s.services.Memory.ConnectionsForUser(ctx, ident)
	if err != nil {
		return nil, err
	}
	return &ListConnectionsOutput{Body: mapConnectionList(conns)}, nil
}

// === Mappers ===

func mapConnectionResponse(c *domain.MemoryConnection) ConnectionResponse {
	return ConnectionResponse{
		ID:             c.ID,
		MemoryID:       c.MemoryID,
		ConnectionType: string(c.ConnectionType),
		Note:           c.Note,
		ExternalUserID: c.ExternalUserID,
		CreatedAt:      c.CreatedAt,
	}
}

func mapConnectionList(conns []*domain.MemoryConnection) ListConnectionsResponse {
	resp := make([]ConnectionResponse, len(conns))
	for i, c := range conns {
		resp[i] = mapConnectionResponse(c)
	}
	return ListConnectionsResponse{Connections: resp}
}
