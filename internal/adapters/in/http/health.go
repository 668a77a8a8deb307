package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger is anything /health probes: the entity store and the dispatch queue.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports 200 when every dependency answers and 503 otherwise.
func HealthHandler(checks map[string]Pinger) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		response := HealthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK

		for name, p := range checks {
			if err := p.Ping(ctx.Request().Context()); err != nil {
				response.Checks[name] = "down"
				response.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			response.Checks[name] = "up"
		}
		return ctx.JSON(status, response)
	}
}
