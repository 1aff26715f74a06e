// Package handler is the first entry point for business logic after the
// router. It parses requests, runs validation through the validation
// package, and calls the service layer.
package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fitlog/exercise-tracker/internal/middleware"
	"github.com/fitlog/exercise-tracker/internal/server"
	"github.com/fitlog/exercise-tracker/internal/validation"
)

// Handler is the base handler type that holds shared application
// dependencies. Concrete handlers embed it to reach config, logger, and
// store through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc represents a typed endpoint function that receives a bound
// and validated request payload and returns a response or an error.
type HandlerFunc[Req any, Res any] func(c echo.Context, req *Req) (Res, error)

// Handle wraps a typed endpoint function with binding, validation, logging,
// and JSON response writing, returning an echo.HandlerFunc ready for route
// registration.
//
// A fresh *Req is allocated per request, so concurrent requests never share
// a payload value.
func Handle[Req any, PReq interface {
	*Req
	validation.Validatable
}, Res any](h Handler, handler HandlerFunc[Req, Res], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		logger := middleware.GetLogger(c).With().
			Str("operation", "handler").
			Logger()

		req := new(Req)
		if err := validation.BindAndValidate(c, PReq(req)); err != nil {
			logger.Warn().
				Err(err).
				Dur("duration", time.Since(start)).
				Msg("request validation failed")
			return err
		}

		result, err := handler(c, req)
		if err != nil {
			logger.Error().
				Err(err).
				Dur("duration", time.Since(start)).
				Msg("handler execution failed")
			return err
		}

		logger.Debug().
			Dur("duration", time.Since(start)).
			Msg("request completed")

		return c.JSON(status, result)
	}
}
