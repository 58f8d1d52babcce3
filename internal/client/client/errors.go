package client

import "errors"

var (
	// ErrUnavailable means the server could not be reached at all.
	ErrUnavailable = errors.New("server unavailable")
	// ErrNotLoggedIn is returned by calls that need a token before login.
	ErrNotLoggedIn = errors.New("not logged in")
)
