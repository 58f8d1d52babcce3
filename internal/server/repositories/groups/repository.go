// Package groups stores groups (including DMs) together with their member,
// admin and channel sets.
package groups

import (
	"context"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

// Repository has set semantics for members, admins and channels. Channels
// keep insertion order. Get and Rename return common.ErrorNotFound for an
// unknown group; Delete of an unknown group is a no-op.
type Repository interface {
	Create(ctx context.Context, group *models.Group) error
	Get(ctx context.Context, gid int64) (*models.Group, error)
	Exists(ctx context.Context, gid int64) (bool, error)
	Rename(ctx context.Context, gid int64, name string) error
	Delete(ctx context.Context, gid int64) error

	AddMember(ctx context.Context, gid, uid int64) error
	RemoveMember(ctx context.Context, gid, uid int64) error
	Members(ctx context.Context, gid int64) ([]int64, error)

	AddAdmin(ctx context.Context, gid, uid int64) error
	RemoveAdmin(ctx context.Context, gid, uid int64) error
	Admins(ctx context.Context, gid int64) ([]int64, error)

	AddChannel(ctx context.Context, gid, cid int64) error
	RemoveChannel(ctx context.Context, gid, cid int64) error
	Channels(ctx context.Context, gid int64) ([]int64, error)
}
