package handler

import (
	"github.com/fitlog/exercise-tracker/internal/server"
	"github.com/fitlog/exercise-tracker/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router setup
// passes one object around instead of many.
type Handlers struct {
	Exercise *ExerciseHandler
	Health   *HealthHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Exercise: NewExerciseHandler(s, services),
		Health:   NewHealthHandler(s),
	}
}
