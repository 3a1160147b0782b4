package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/rememberthis/remember-server/internal/api"
	"github.com/rememberthis/remember-server/internal/config"
	"github.com/rememberthis/remember-server/internal/identity"
	"github.com/rememberthis/remember-server/internal/logger"
	"github.com/rememberthis/remember-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*identity.TokenVerifier](i)
	webhooks := do.MustInvoke[*identity.WebhookVerifier](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Identity: do.MustInvoke[*service.IdentityService](i),
		Memory:   do.MustInvoke[*service.MemoryService](i),
	}

	handler := api.NewServer(cfg, storeHandle.Store, services, tokens, webhooks, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
