package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rememberthis/remember-server/internal/identity"
)

// webhookLimiterKey is the single bucket for provider deliveries; the
// provider is one caller, so the limit is global rather than per-key.
const webhookLimiterKey = "identity-webhook"

func (s *Server) registerWebhookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "identityWebhook",
		Method:      http.MethodPost,
		Path:        "/api/v1/webhooks/identity",
		Summary:     "Identity webhook",
		Description: "Receives signed user lifecycle events from the identity provider",
		Tags:        []string{"Webhooks"},
	}, s.handleIdentityWebhook)
}

// === DTOs ===

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

type IdentityWebhookInput struct {
	SvixID        string `header:"svix-id" doc:"Delivery ID"`
	SvixTimestamp string `header:"svix-timestamp" doc:"Delivery timestamp"`
	SvixSignature string `header:"svix-signature" doc:"Delivery signature"`
	RawBody       []byte
}

// === Handlers ===

func (s *Server) handleIdentityWebhook(ctx context.Context, input *IdentityWebhookInput) (*MessageOutput, error) {
	if !s.webhookLimiter.Allow(webhookLimiterKey) {
		return nil, huma.Error429TooManyRequests("Too many webhook deliveries")
	}

	headers := http.Header{}
	headers.Set("svix-id", input.SvixID)
	headers.Set("svix-timestamp", input.SvixTimestamp)
	headers.Set("svix-signature", input.SvixSignature)

	event, err := s.webhooks.Verify(input.RawBody, headers)
	if err != nil {
		s.logger.Warn("webhook verification failed", "error", err)
		return nil, err
	}

	switch event.Type {
	case identity.EventUserCreated:
		if _, err := s.services.Identity.HandleUserCreated(ctx, event.Data); err != nil {
			return nil, err
		}
	case identity.EventUserUpdated:
		if _, err := s.services.Identity.HandleUserUpdated(ctx, event.Data); err != nil {
			return nil, err
		}
	default:
		// Event types we don't mirror are acknowledged so the provider
		// stops retrying them.
		s.logger.Info("ignoring webhook event", "type", event.Type)
	}

	return &MessageOutput{Body: MessageResponse{Message: "Event processed"}}, nil
}
