// Package memberships stores the per-user reverse indices: the groups and
// the DMs a user belongs to. They mirror Group.Members and are maintained by
// the services on every membership change.
package memberships

import "context"

// Repository has set semantics: adding a present id and removing an absent
// one are no-ops. Listing an unknown user yields an empty slice.
type Repository interface {
	AddGroup(ctx context.Context, uid, gid int64) error
	RemoveGroup(ctx context.Context, uid, gid int64) error
	Groups(ctx context.Context, uid int64) ([]int64, error)
	AddDM(ctx context.Context, uid, gid int64) error
	RemoveDM(ctx context.Context, uid, gid int64) error
	DMs(ctx context.Context, uid int64) ([]int64, error)
	Clear(ctx context.Context, uid int64) error
}
