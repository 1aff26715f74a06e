// Package errs defines the error types the API returns to clients.
//
// Every failed request ends up as an *HTTPError, serialized by the global
// error handler into the envelope `{"error": <message or field errors>}`.
// Validation failures carry the full batch of FieldErrors so a client
// fixing one issue does not have to resubmit to discover the next.
package errs
