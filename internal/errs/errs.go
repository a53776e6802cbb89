// Package errs defines the error shapes returned to API clients.
//
// Every handler error ends up as an *HTTPError: a stable machine-readable
// code, a human message, the HTTP status, and optional field-level errors
// for rejected payloads.
package errs
