// Package di provides dependency injection configuration for the Remember This server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/rememberthis/remember-server/internal/config"
	"github.com/rememberthis/remember-server/internal/di/providers"
	"github.com/rememberthis/remember-server/internal/identity"
	"github.com/rememberthis/remember-server/internal/logger"
	"github.com/rememberthis/remember-server/internal/service"
	"github.com/rememberthis/remember-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Identity layer
	do.Provide(injector, providers.ProvideTokenVerifier)
	do.Provide(injector, providers.ProvideWebhookVerifier)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideIdentityService)
	do.Provide(injector, providers.ProvideMemoryService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*identity.TokenVerifier](injector)
	_ = do.MustInvoke[*identity.WebhookVerifier](injector)

	// Business services
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*service.IdentityService](injector)
	_ = do.MustInvoke[*service.MemoryService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
