package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Component and overall statuses, from best to worst.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

var severity = map[string]int{statusHealthy: 0, statusDegraded: 1, statusUnhealthy: 2}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports whether the notebook database and the transcript segment index are usable",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Time the check took"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse is the worst component status plus each component's.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	resp := HealthResponse{
		Status: statusHealthy,
		Components: map[string]ComponentHealth{
			"database": s.checkDatabase(ctx),
			"search":   s.checkSearchIndex(),
		},
	}
	for _, c := range resp.Components {
		if severity[c.Status] > severity[resp.Status] {
			resp.Status = c.Status
		}
	}
	return &HealthOutput{Body: resp}, nil
}

// probe runs check and times it. A check error makes the component
// unhealthy with failMsg; degraded marks a usable but incomplete component.
func probe(failMsg string, check func() (msg string, degraded bool, err error)) ComponentHealth {
	start := time.Now()
	msg, degraded, err := check()
	c := ComponentHealth{Status: statusHealthy, Latency: time.Since(start).String(), Message: msg}
	switch {
	case err != nil:
		c.Status, c.Message = statusUnhealthy, failMsg
	case degraded:
		c.Status = statusDegraded
	}
	return c
}

func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: statusDegraded, Message: "database not configured"}
	}
	return probe("database ping failed", func() (string, bool, error) {
		return "", false, s.store.Ping(ctx)
	})
}

// checkSearchIndex reports an empty index as degraded: timestamp search and
// chat answers come back empty until a transcript is indexed.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services == nil || s.services.Search == nil {
		return ComponentHealth{Status: statusDegraded, Message: "search index not configured"}
	}
	return probe("search index unreachable", func() (string, bool, error) {
		n, err := s.services.Search.DocumentCount()
		if err != nil {
			return "", false, err
		}
		if n == 0 {
			return "search index empty", true, nil
		}
		return strconv.FormatUint(n, 10) + " segments indexed", false, nil
	})
}
