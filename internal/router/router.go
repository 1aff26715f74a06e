// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups, mapping
// paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitlog/exercise-tracker/internal/handler"
	"github.com/fitlog/exercise-tracker/internal/middleware"
	"github.com/fitlog/exercise-tracker/internal/server"
	"github.com/fitlog/exercise-tracker/internal/service"
)

// New builds the Echo instance: middleware stack, global error handler, and
// all routes.
func New(s *server.Server, services *service.Services) *echo.Echo {
	r := echo.New()
	r.HideBanner = true

	middlewares := middleware.NewMiddlewares(s)
	r.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	r.Use(middlewares.Global.CORS())
	r.Use(middleware.RequestID())
	r.Use(middlewares.ContextEnhancer.EnhanceContext())
	r.Use(middlewares.Global.RequestLogger())
	r.Use(middlewares.Global.Recover())
	r.Use(middlewares.Global.Secure())

	handlers := handler.NewHandlers(s, services)

	registerSystemRoutes(r, handlers)
	registerExerciseRoutes(r, handlers)

	return r
}

// registerExerciseRoutes registers the tracker API under /api/exercise.
func registerExerciseRoutes(r *echo.Echo, h *handler.Handlers) {
	api := r.Group("/api/exercise")

	api.POST("/new-user", handler.Handle(h.Exercise.Handler, h.Exercise.CreateUser, http.StatusOK))
	api.GET("/users", h.Exercise.ListUsers)
	api.POST("/add", handler.Handle(h.Exercise.Handler, h.Exercise.AddExercise, http.StatusOK))
	api.GET("/log", handler.Handle(h.Exercise.Handler, h.Exercise.GetLog, http.StatusOK))
}
