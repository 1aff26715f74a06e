package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fitlog/exercise-tracker/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of business
// logic: the health endpoint, the landing page, and static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	// Landing page plus any assets it references.
	r.File("/", "static/index.html")
	r.Static("/static", "static")
}
