// Package messages stores message metadata. Messages are appended by the
// streaming service; this side reads, threads and deletes them.
package messages

import (
	"context"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.Message) error
	// Get returns common.ErrorNotFound for an unknown message.
	Get(ctx context.Context, mid int64) (*models.Message, error)
	Exists(ctx context.Context, mid int64) (bool, error)
	Delete(ctx context.Context, mid int64) error
	// SetThread replaces the message's thread with tid only if it still
	// equals prev (nil: no thread) and reports whether it did. An unknown
	// message reports false.
	SetThread(ctx context.Context, mid int64, prev *int64, tid int64) (bool, error)
	// List returns the newest limit messages of a channel, oldest first.
	List(ctx context.Context, cid int64, limit int) ([]models.Message, error)
}
