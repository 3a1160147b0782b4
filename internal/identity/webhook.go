package identity

import (
	"encoding/json"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/rememberthis/remember-server/internal/errors"
)

// Event types delivered by the identity provider.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
)

// Event is a verified webhook delivery from the identity provider.
type Event struct {
	Type string    `json:"type"`
	Data EventUser `json:"data"`
}

// EventUser is the provider's user record as carried in webhook payloads.
type EventUser struct {
	ID             string         `json:"id"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
}

// EmailAddress is one entry of the provider's email address list.
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the first listed email address, or "".
func (u EventUser) PrimaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

// WebhookVerifier checks webhook signatures and decodes event payloads.
type WebhookVerifier struct {
	wh *svix.Webhook
}

// NewWebhookVerifier creates a verifier from the provider's signing secret
// (the "whsec_..." value from the provider dashboard).
func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, errors.Internal("invalid webhook signing secret").WithCause(err)
	}
	return &WebhookVerifier{wh: wh}, nil
}

// Verify checks the delivery signature against the raw body and headers
// (svix-id, svix-timestamp, svix-signature) and decodes the event.
// Signature failures and missing headers return a validation error; the
// caller responds 400 and the provider retries with a correct signature
// or not at all.
func (wv *WebhookVerifier) Verify(payload []byte, headers http.Header) (*Event, error) {
	if err := wv.wh.Verify(payload, headers); err != nil {
		return nil, errors.Validation("webhook signature verification failed").WithCause(err)
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.Validation("malformed webhook payload").WithCause(err)
	}
	if event.Type == "" || event.Data.ID == "" {
		return nil, errors.Validation("webhook payload missing type or user id")
	}
	return &event, nil
}
