// Package middleware wires the cross-cutting HTTP concerns: CORS, request
// logging, panic recovery, request ids, the request-scoped logger, and the
// global error funnel that turns every failure into the API's error
// envelope.
package middleware

import (
	"github.com/fitlog/exercise-tracker/internal/server"
)

// Middlewares is a lightweight container that groups all middleware
// components used by the HTTP server. Build once, reuse during router
// setup.
type Middlewares struct {
	// Global holds middleware applied to every route: CORS, request
	// logging, recovery, secure headers, and the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer enriches each request with a request-scoped logger
	// (request_id, method, path, ip).
	ContextEnhancer *ContextEnhancer
}

// NewMiddlewares constructs all middleware components from the application
// container.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
	}
}
