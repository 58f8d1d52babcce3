// Package cli is the interactive front end of the Scuttlebutt client.
//
// It runs a small REPL over stdin. Anonymous users can register (username,
// email and a password read without echo) and log in by user id. Once
// logged in they can list their groups and DMs, create groups and DMs,
// leave them, and check who they are. Passwords are SHA-256 hashed locally,
// hex encoded and wiped; the server only ever sees the hash.
//
// A background watcher pings the server and flips the prompt between
// online and offline.
package cli
