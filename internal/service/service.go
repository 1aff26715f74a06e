// Package service contains the core business logic of the tracker: the
// three commands (create user, append exercise, list users) and the log
// query engine. Handlers validate and shape HTTP requests; everything
// behind that boundary lives here.
package service

import (
	"github.com/rs/zerolog"

	"github.com/fitlog/exercise-tracker/internal/store"
)

// Services is a container that groups all business-logic services.
type Services struct {
	Exercise *ExerciseService
}

// NewServices constructs the service container over the shared store.
func NewServices(s store.Store, logger *zerolog.Logger) *Services {
	return &Services{
		Exercise: NewExerciseService(s, logger),
	}
}
