// Package models defines the entities of the chat control plane as they are
// persisted and returned by the API. Every id comes from idgen.
package models

// User is an account. Hash is the client-side SHA-256 of the password, hex
// encoded; it never leaves the server.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Hash     string `json:"-"`
}
