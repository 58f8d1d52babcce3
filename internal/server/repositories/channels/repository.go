// Package channels stores channels and their member sets. Threads are
// channels too.
package channels

import (
	"context"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

// Repository has set semantics for members. Get, Rename and SetPrivate
// return common.ErrorNotFound for an unknown channel; Delete of an unknown
// channel is a no-op.
type Repository interface {
	Create(ctx context.Context, channel *models.Channel) error
	Get(ctx context.Context, cid int64) (*models.Channel, error)
	Exists(ctx context.Context, cid int64) (bool, error)
	Rename(ctx context.Context, cid int64, name string) error
	SetPrivate(ctx context.Context, cid int64, private bool) error
	Delete(ctx context.Context, cid int64) error

	AddMember(ctx context.Context, cid, uid int64) error
	RemoveMember(ctx context.Context, cid, uid int64) error
	Members(ctx context.Context, cid int64) ([]int64, error)
}
