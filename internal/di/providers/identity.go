package providers

import (
	"github.com/samber/do/v2"

	"github.com/rememberthis/remember-server/internal/config"
	"github.com/rememberthis/remember-server/internal/identity"
)

// ProvideTokenVerifier provides the identity provider session token verifier.
func ProvideTokenVerifier(i do.Injector) (*identity.TokenVerifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return identity.NewTokenVerifier(cfg.Identity.TokenSecret, cfg.Identity.Issuer), nil
}

// ProvideWebhookVerifier provides the identity provider webhook signature verifier.
func ProvideWebhookVerifier(i do.Injector) (*identity.WebhookVerifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return identity.NewWebhookVerifier(cfg.Identity.WebhookSecret)
}
