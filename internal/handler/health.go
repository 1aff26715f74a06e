package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fitlog/exercise-tracker/internal/middleware"
	"github.com/fitlog/exercise-tracker/internal/server"
)

// HealthHandler exposes a system endpoint that uptime monitors and load
// balancers can use to verify the service is alive and its store is
// reachable.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns overall status plus a store connectivity check.
// 200 when healthy, 503 when the store is unreachable.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}
	checks := response["checks"].(map[string]interface{})

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	storeStart := time.Now()
	if err := h.server.Store.Ping(ctx); err != nil {
		checks["store"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(storeStart).String(),
			"error":         err.Error(),
		}
		response["status"] = "unhealthy"

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(storeStart)).
			Msg("store health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	checks["store"] = map[string]interface{}{
		"status":        "healthy",
		"response_time": time.Since(storeStart).String(),
	}

	return c.JSON(http.StatusOK, response)
}
