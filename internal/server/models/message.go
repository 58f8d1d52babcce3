package models

import "time"

// Message metadata. Messages are written by the streaming service; the
// control plane lists, searches, threads and deletes them.
type Message struct {
	ID        int64     `json:"id"`
	Channel   int64     `json:"channel"`
	Author    int64     `json:"author"`
	Content   string    `json:"content"`
	Thread    *int64    `json:"thread,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
