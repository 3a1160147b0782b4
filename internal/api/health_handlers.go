package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)

	huma.Register(s.api, huma.Operation{
		OperationID: "diagnoseAuth",
		Method:      http.MethodGet,
		Path:        "/api/v1/diagnostics/auth",
		Summary:     "Auth diagnostics",
		Description: "Echoes the verified identity for the presented token",
		Tags:        []string{"Diagnostics"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDiagnoseAuth)

	huma.Register(s.api, huma.Operation{
		OperationID: "diagnoseDatabase",
		Method:      http.MethodGet,
		Path:        "/api/v1/diagnostics/db",
		Summary:     "Database diagnostics",
		Description: "Verifies database connectivity and reports latency",
		Tags:        []string{"Diagnostics"},
	}, s.handleDiagnoseDatabase)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

type AuthDiagnosticsResponse struct {
	ExternalID string `json:"external_id" doc:"Identity provider user ID"`
	Email      string `json:"email,omitempty" doc:"Email claim"`
	FirstName  string `json:"first_name,omitempty" doc:"First name claim"`
	LastName   string `json:"last_name,omitempty" doc:"Last name claim"`
}

type AuthDiagnosticsOutput struct {
	Body AuthDiagnosticsResponse
}

type DatabaseDiagnosticsOutput struct {
	Body ComponentHealth
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	dbHealth := s.checkDatabase(ctx)
	components["database"] = dbHealth
	if dbHealth.Status != "healthy" {
		overall = "unhealthy"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

func (s *Server) handleDiagnoseAuth(ctx context.Context, _ *struct{}) (*AuthDiagnosticsOutput, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	return &AuthDiagnosticsOutput{Body: AuthDiagnosticsResponse{
		ExternalID: ident.ExternalID,
		Email:      ident.Email,
		FirstName:  ident.FirstName,
		LastName:   ident.LastName,
	}}, nil
}

func (s *Server) handleDiagnoseDatabase(ctx context.Context, _ *struct{}) (*DatabaseDiagnosticsOutput, error) {
	return &DatabaseDiagnosticsOutput{Body: s.checkDatabase(ctx)}, nil
}

// checkDatabase verifies the database answers a ping.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Message: "database not configured",
		}
	}

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "database ping failed",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}
