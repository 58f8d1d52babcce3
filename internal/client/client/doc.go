// Package client is the CLI's view of the Scuttlebutt HTTP API.
//
// HTTPClient speaks the /api routes, keeps the bearer token obtained by
// Login and maps response statuses back onto the sentinel errors of
// internal/common (BadRequest, NotFound, Unauthorized, Internal), so callers
// match them with errors.Is. Transport failures are reported as
// ErrUnavailable.
package client
