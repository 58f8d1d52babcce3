// Package common defines shared constants and sentinel errors used across
// the server and client layers of Scuttlebutt. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Request-level errors. Every service operation fails with one of these
	// (possibly wrapped), and the HTTP layer maps them to a status code.
	ErrorBadRequest   = errors.New("bad request")
	ErrorNotFound     = errors.New("not found")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInternal     = errors.New("internal error")
)
