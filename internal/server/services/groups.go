package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/metrics"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/policy"
)

// GroupService manages groups, DMs and their membership.
type GroupService struct {
	g *graph
}

// Create makes a group owned and administered by principal, with a public
// main channel.
func (s *GroupService) Create(ctx context.Context, principal int64, name string) (*models.Group, error) {
	const op = "group.create"

	if err := requireName(name); err != nil {
		return nil, err
	}
	if err := s.g.requirePrincipal(ctx, op, principal); err != nil {
		return nil, err
	}

	grp := &models.Group{
		ID:      s.g.nextID(),
		Name:    name,
		Owner:   principal,
		Admins:  []int64{principal},
		Members: []int64{principal},
	}
	if err := s.g.repos.Groups().Create(ctx, grp); err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}

	mainCh := &models.Channel{
		ID:      s.g.nextID(),
		Group:   grp.ID,
		Name:    models.MainChannelName,
		Members: []int64{principal},
	}
	if err := s.attachChannel(ctx, op, mainCh); err != nil {
		return nil, err
	}
	grp.Channels = []int64{mainCh.ID}

	if err := s.g.repos.Memberships().AddGroup(ctx, principal, grp.ID); err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}

	s.g.log.Info(ctx, "group created", "group", grp.ID, "owner", principal)
	return grp, nil
}

// CreateDM opens a DM between principal and uid. Both are members and both
// get it in their DM index. The owner field is set structurally only.
func (s *GroupService) CreateDM(ctx context.Context, principal, uid int64) (*models.Group, error) {
	const op = "group.create_dm"

	if uid == principal {
		return nil, common.ErrorBadRequest
	}
	if err := s.g.requirePrincipal(ctx, op, principal); err != nil {
		return nil, err
	}
	if err := s.g.requireUser(ctx, op, uid); err != nil {
		return nil, err
	}

	dm := &models.Group{
		ID:      s.g.nextID(),
		Owner:   principal,
		Admins:  []int64{},
		Members: []int64{principal, uid},
		IsDM:    true,
	}
	if err := s.g.repos.Groups().Create(ctx, dm); err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}
	for _, member := range dm.Members {
		if err := s.g.repos.Memberships().AddDM(ctx, member, dm.ID); err != nil {
			return nil, s.g.storeErr(ctx, op, err)
		}
	}

	mainCh := &models.Channel{
		ID:      s.g.nextID(),
		Group:   dm.ID,
		Name:    models.MainChannelName,
		Members: []int64{principal, uid},
	}
	if err := s.attachChannel(ctx, op, mainCh); err != nil {
		return nil, err
	}
	dm.Channels = []int64{mainCh.ID}

	s.g.log.Info(ctx, "dm created", "group", dm.ID, "members", dm.Members)
	return dm, nil
}

// attachChannel persists ch and lists it in its group.
func (s *GroupService) attachChannel(ctx context.Context, op string, ch *models.Channel) error {
	if err := s.g.repos.Channels().Create(ctx, ch); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	if err := s.g.repos.Groups().AddChannel(ctx, ch.Group, ch.ID); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

// Get returns the group if principal is a member; otherwise NotFound.
func (s *GroupService) Get(ctx context.Context, principal, gid int64) (*models.Group, error) {
	grp, err := s.g.group(ctx, "group.get", gid)
	if err != nil {
		return nil, err
	}
	if err := s.g.authorize(principal, policy.OpViewGroup, policy.Resource{Group: grp}); err != nil {
		return nil, err
	}
	return grp, nil
}

func (s *GroupService) Rename(ctx context.Context, principal, gid int64, name string) error {
	const op = "group.rename"

	if err := requireName(name); err != nil {
		return err
	}
	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return err
	}
	if err := s.g.authorize(principal, policy.OpRenameGroup, policy.Resource{Group: grp}); err != nil {
		return err
	}
	if err := s.g.repos.Groups().Rename(ctx, gid, name); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

// Delete removes the group from every member's index, deletes its channels
// and finally the group itself. Owner only. Members that joined after the
// group was read are picked up by a second read just before the group row
// goes.
func (s *GroupService) Delete(ctx context.Context, principal, gid int64) error {
	const op = "group.delete"
	steps := metrics.CascadeSteps.WithLabelValues(op)

	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return err
	}
	if err := s.g.authorize(principal, policy.OpDeleteGroup, policy.Resource{Group: grp}); err != nil {
		return err
	}

	unindex := func(uid int64) error {
		var err error
		if grp.IsDM {
			err = s.g.repos.Memberships().RemoveDM(ctx, uid, gid)
		} else {
			err = s.g.repos.Memberships().RemoveGroup(ctx, uid, gid)
		}
		if err != nil {
			return s.g.storeErr(ctx, op, err)
		}
		steps.Inc()
		return nil
	}

	for _, uid := range grp.Members {
		if err := unindex(uid); err != nil {
			return err
		}
	}
	for _, cid := range grp.Channels {
		if err := s.g.repos.Channels().Delete(ctx, cid); err != nil {
			return s.g.storeErr(ctx, op, err)
		}
		steps.Inc()
	}

	late, err := s.g.repos.Groups().Members(ctx, gid)
	if err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	for _, uid := range late {
		if grp.HasMember(uid) {
			continue
		}
		if err := unindex(uid); err != nil {
			return err
		}
	}

	if err := s.g.repos.Groups().Delete(ctx, gid); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	steps.Inc()

	s.g.log.Info(ctx, "group deleted", "group", gid, "channels", len(grp.Channels))
	return nil
}

// Members lists the accounts in the group. Member only.
func (s *GroupService) Members(ctx context.Context, principal, gid int64) ([]models.User, error) {
	const op = "group.members"

	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return nil, err
	}
	if err := s.g.authorize(principal, policy.OpListMembers, policy.Resource{Group: grp}); err != nil {
		return nil, err
	}
	return s.g.users(ctx, op, grp.Members)
}

// AddMember adds uid to the group, to each of its public channels and to
// uid's index. Admin only, so DMs cannot be joined.
func (s *GroupService) AddMember(ctx context.Context, principal, gid, uid int64) error {
	const op = "group.add_member"

	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return err
	}
	if err := s.g.requireUser(ctx, op, uid); err != nil {
		return err
	}
	if err := s.g.authorize(principal, policy.OpAddGroupMember, policy.Resource{Group: grp, Target: uid}); err != nil {
		return err
	}

	if err := s.g.repos.Groups().AddMember(ctx, gid, uid); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	for _, cid := range grp.Channels {
		ch, err := s.g.repos.Channels().Get(ctx, cid)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return s.g.storeErr(ctx, op, err)
		}
		if ch.Private {
			continue
		}
		if err := s.g.repos.Channels().AddMember(ctx, cid, uid); err != nil {
			return s.g.storeErr(ctx, op, err)
		}
	}

	if grp.IsDM {
		err = s.g.repos.Memberships().AddDM(ctx, uid, gid)
	} else {
		err = s.g.repos.Memberships().AddGroup(ctx, uid, gid)
	}
	if err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

// RemoveMember takes uid out of the group and all its channels. Admin only;
// the owner can never be removed. Removing a non-member is a no-op.
func (s *GroupService) RemoveMember(ctx context.Context, principal, gid, uid int64) error {
	const op = "group.remove_member"

	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return err
	}
	if err := s.g.requireUser(ctx, op, uid); err != nil {
		return err
	}
	if err := s.g.authorize(principal, policy.OpRemoveGroupMember, policy.Resource{Group: grp, Target: uid}); err != nil {
		return err
	}
	return s.g.removeGroupMember(ctx, gid, uid, grp.IsDM)
}

// Admins lists the group's admins. Member only.
func (s *GroupService) Admins(ctx context.Context, principal, gid int64) ([]models.User, error) {
	const op = "group.admins"

	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return nil, err
	}
	if err := s.g.authorize(principal, policy.OpListAdmins, policy.Resource{Group: grp}); err != nil {
		return nil, err
	}
	return s.g.users(ctx, op, grp.Admins)
}

// AddAdmin promotes a member. Owner only.
func (s *GroupService) AddAdmin(ctx context.Context, principal, gid, uid int64) error {
	const op = "group.add_admin"

	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return err
	}
	if err := s.g.requireUser(ctx, op, uid); err != nil {
		return err
	}
	if err := s.g.authorize(principal, policy.OpAddGroupAdmin, policy.Resource{Group: grp, Target: uid}); err != nil {
		return err
	}
	if !grp.HasMember(uid) {
		return common.ErrorBadRequest
	}
	if err := s.g.repos.Groups().AddAdmin(ctx, gid, uid); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

// RemoveAdmin demotes an admin back to member. Owner only; the owner
// cannot be demoted.
func (s *GroupService) RemoveAdmin(ctx context.Context, principal, gid, uid int64) error {
	const op = "group.remove_admin"

	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return err
	}
	if err := s.g.requireUser(ctx, op, uid); err != nil {
		return err
	}
	if err := s.g.authorize(principal, policy.OpRemoveGroupAdmin, policy.Resource{Group: grp, Target: uid}); err != nil {
		return err
	}
	if err := s.g.repos.Groups().RemoveAdmin(ctx, gid, uid); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

// Channels lists the group's channels that principal belongs to, in group
// order.
func (s *GroupService) Channels(ctx context.Context, principal, gid int64) ([]models.Channel, error) {
	const op = "group.channels"

	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return nil, err
	}
	if err := s.g.authorize(principal, policy.OpViewGroup, policy.Resource{Group: grp}); err != nil {
		return nil, err
	}

	out := make([]models.Channel, 0, len(grp.Channels))
	for _, cid := range grp.Channels {
		ch, err := s.g.repos.Channels().Get(ctx, cid)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return nil, s.g.storeErr(ctx, op, err)
		}
		if ch.HasMember(principal) {
			out = append(out, *ch)
		}
	}
	return out, nil
}

// CreateChannel adds a public channel whose only member is its creator.
// Admin only.
func (s *GroupService) CreateChannel(ctx context.Context, principal, gid int64, name string) (*models.Channel, error) {
	const op = "group.create_channel"

	if err := requireName(name); err != nil {
		return nil, err
	}
	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return nil, err
	}
	if err := s.g.authorize(principal, policy.OpCreateChannel, policy.Resource{Group: grp}); err != nil {
		return nil, err
	}

	ch := &models.Channel{
		ID:      s.g.nextID(),
		Group:   gid,
		Name:    name,
		Members: []int64{principal},
	}
	if err := s.attachChannel(ctx, op, ch); err != nil {
		return nil, err
	}
	return ch, nil
}
