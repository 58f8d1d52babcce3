package memory

import (
	"context"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

type GroupRepository struct{ s *Store }

func (r *GroupRepository) Create(_ context.Context, group *models.Group) error {
	if err := r.s.fail("groups.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.groups[group.ID]; !ok {
		r.s.groups[group.ID] = cloneGroup(group)
	}
	return nil
}

func (r *GroupRepository) Get(_ context.Context, gid int64) (*models.Group, error) {
	if err := r.s.fail("groups.Get"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.groups[gid]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneGroup(g), nil
}

func (r *GroupRepository) Exists(_ context.Context, gid int64) (bool, error) {
	if err := r.s.fail("groups.Exists"); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.groups[gid]
	return ok, nil
}

func (r *GroupRepository) Rename(_ context.Context, gid int64, name string) error {
	return r.mutate("groups.Rename", gid, true, func(g *models.Group) { g.Name = name })
}

func (r *GroupRepository) Delete(_ context.Context, gid int64) error {
	if err := r.s.fail("groups.Delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.groups, gid)
	return nil
}

func (r *GroupRepository) AddMember(_ context.Context, gid, uid int64) error {
	return r.mutate("groups.AddMember", gid, true, func(g *models.Group) { g.Members = addID(g.Members, uid) })
}

func (r *GroupRepository) RemoveMember(_ context.Context, gid, uid int64) error {
	return r.mutate("groups.RemoveMember", gid, false, func(g *models.Group) { g.Members = removeID(g.Members, uid) })
}

func (r *GroupRepository) Members(_ context.Context, gid int64) ([]int64, error) {
	return r.list("groups.Members", gid, func(g *models.Group) []int64 { return g.Members })
}

func (r *GroupRepository) AddAdmin(_ context.Context, gid, uid int64) error {
	return r.mutate("groups.AddAdmin", gid, true, func(g *models.Group) { g.Admins = addID(g.Admins, uid) })
}

func (r *GroupRepository) RemoveAdmin(_ context.Context, gid, uid int64) error {
	return r.mutate("groups.RemoveAdmin", gid, false, func(g *models.Group) { g.Admins = removeID(g.Admins, uid) })
}

func (r *GroupRepository) Admins(_ context.Context, gid int64) ([]int64, error) {
	return r.list("groups.Admins", gid, func(g *models.Group) []int64 { return g.Admins })
}

func (r *GroupRepository) AddChannel(_ context.Context, gid, cid int64) error {
	return r.mutate("groups.AddChannel", gid, true, func(g *models.Group) { g.Channels = addID(g.Channels, cid) })
}

func (r *GroupRepository) RemoveChannel(_ context.Context, gid, cid int64) error {
	return r.mutate("groups.RemoveChannel", gid, false, func(g *models.Group) { g.Channels = removeID(g.Channels, cid) })
}

func (r *GroupRepository) Channels(_ context.Context, gid int64) ([]int64, error) {
	return r.list("groups.Channels", gid, func(g *models.Group) []int64 { return g.Channels })
}

// mutate applies fn to the stored group. A missing group is NotFound when
// strict, otherwise the call is a no-op (removals are idempotent).
func (r *GroupRepository) mutate(op string, gid int64, strict bool, fn func(*models.Group)) error {
	if err := r.s.fail(op); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[gid]
	if !ok {
		if strict {
			return common.ErrorNotFound
		}
		return nil
	}
	fn(g)
	return nil
}

func (r *GroupRepository) list(op string, gid int64, field func(*models.Group) []int64) ([]int64, error) {
	if err := r.s.fail(op); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.groups[gid]
	if !ok {
		return []int64{}, nil
	}
	return cloneIDs(field(g)), nil
}
