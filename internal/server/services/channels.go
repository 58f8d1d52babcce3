package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/policy"
)

const (
	// SearchWindow is how many recent messages a search looks at.
	SearchWindow = 100
	// MaxMessages caps a single message listing.
	MaxMessages = 500
)

// ChannelService manages channels and reads their messages.
type ChannelService struct {
	g *graph
}

// load fetches the channel and its group and checks op against them. For
// membership checks the channel narrows the rule; admin checks only look
// at the group.
func (s *ChannelService) load(ctx context.Context, principal, cid int64, op policy.Operation) (*models.Channel, *models.Group, error) {
	ch, grp, err := s.g.channelWithGroup(ctx, string(op), cid)
	if err != nil {
		return nil, nil, err
	}
	res := policy.Resource{Group: grp}
	if role, _ := policy.Requirement(op); role == policy.RoleMember {
		res.Channel = ch
	}
	if err := s.g.authorize(principal, op, res); err != nil {
		return nil, nil, err
	}
	return ch, grp, nil
}

// Get returns the channel if principal is in it; otherwise NotFound.
func (s *ChannelService) Get(ctx context.Context, principal, cid int64) (*models.Channel, error) {
	ch, _, err := s.load(ctx, principal, cid, policy.OpViewChannel)
	return ch, err
}

func (s *ChannelService) Rename(ctx context.Context, principal, cid int64, name string) error {
	if err := requireName(name); err != nil {
		return err
	}
	if _, _, err := s.load(ctx, principal, cid, policy.OpRenameChannel); err != nil {
		return err
	}
	if err := s.g.repos.Channels().Rename(ctx, cid, name); err != nil {
		return s.g.storeErr(ctx, "channel.rename", err)
	}
	return nil
}

func (s *ChannelService) SetPrivate(ctx context.Context, principal, cid int64, private bool) error {
	if _, _, err := s.load(ctx, principal, cid, policy.OpPrivatizeChannel); err != nil {
		return err
	}
	if err := s.g.repos.Channels().SetPrivate(ctx, cid, private); err != nil {
		return s.g.storeErr(ctx, "channel.private", err)
	}
	return nil
}

// Delete unlists the channel from its group, then deletes it.
func (s *ChannelService) Delete(ctx context.Context, principal, cid int64) error {
	const op = "channel.delete"

	ch, _, err := s.load(ctx, principal, cid, policy.OpDeleteChannel)
	if err != nil {
		return err
	}
	if err := s.g.repos.Groups().RemoveChannel(ctx, ch.Group, cid); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	if err := s.g.repos.Channels().Delete(ctx, cid); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

// Members lists the accounts in the channel. Member only.
func (s *ChannelService) Members(ctx context.Context, principal, cid int64) ([]models.User, error) {
	ch, _, err := s.load(ctx, principal, cid, policy.OpListChannelMembers)
	if err != nil {
		return nil, err
	}
	return s.g.users(ctx, "channel.members", ch.Members)
}

// AddMember adds a group member to the channel. Admin of the parent group
// only; users outside the group are rejected.
func (s *ChannelService) AddMember(ctx context.Context, principal, cid, uid int64) error {
	const op = "channel.add_member"

	if err := s.g.requireUser(ctx, op, uid); err != nil {
		return err
	}
	_, grp, err := s.load(ctx, principal, cid, policy.OpAddChannelMember)
	if err != nil {
		return err
	}
	if !grp.HasMember(uid) {
		return common.ErrorBadRequest
	}
	if err := s.g.repos.Channels().AddMember(ctx, cid, uid); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

// RemoveMember takes uid out of the channel. Idempotent.
func (s *ChannelService) RemoveMember(ctx context.Context, principal, cid, uid int64) error {
	const op = "channel.remove_member"

	if err := s.g.requireUser(ctx, op, uid); err != nil {
		return err
	}
	if _, _, err := s.load(ctx, principal, cid, policy.OpRemoveChannelMember); err != nil {
		return err
	}
	if err := s.g.repos.Channels().RemoveMember(ctx, cid, uid); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

// Search returns the messages among the last SearchWindow that contain
// term, oldest first, skipping the first off matches.
func (s *ChannelService) Search(ctx context.Context, principal, cid int64, term string, off int) ([]models.Message, error) {
	const op = "channel.search"

	if off < 0 {
		return nil, common.ErrorBadRequest
	}
	if _, _, err := s.load(ctx, principal, cid, policy.OpReadMessages); err != nil {
		return nil, err
	}

	recent, err := s.g.repos.Messages().List(ctx, cid, SearchWindow)
	if err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}

	out := make([]models.Message, 0)
	for _, m := range recent {
		if !strings.Contains(m.Content, term) {
			continue
		}
		if off > 0 {
			off--
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Messages returns the newest n messages of the channel, oldest first.
// n is capped at MaxMessages.
func (s *ChannelService) Messages(ctx context.Context, principal, cid int64, n int) ([]models.Message, error) {
	if n < 0 {
		return nil, common.ErrorBadRequest
	}
	if n > MaxMessages {
		n = MaxMessages
	}
	if _, _, err := s.load(ctx, principal, cid, policy.OpReadMessages); err != nil {
		return nil, err
	}

	msgs, err := s.g.repos.Messages().List(ctx, cid, n)
	if err != nil {
		return nil, s.g.storeErr(ctx, "channel.messages", err)
	}
	return msgs, nil
}
