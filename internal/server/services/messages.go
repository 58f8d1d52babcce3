package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/policy"
)

// MessageService threads and deletes messages.
type MessageService struct {
	g *graph
}

// CreateThread spawns a private channel from a message, in the same group,
// with the requester as its only member. A message carries at most one
// thread: when it already has one, that thread is returned and nothing new
// is created. A requester outside the existing thread gets only its id. A
// thread whose channel was deleted no longer counts, so a new one replaces
// it. Of two concurrent creators exactly one attaches its channel; the other
// removes its own and returns the winner's.
func (s *MessageService) CreateThread(ctx context.Context, principal, mid int64, name string) (*models.Channel, error) {
	const op = "message.thread"

	if err := requireName(name); err != nil {
		return nil, err
	}
	msg, err := s.message(ctx, op, mid)
	if err != nil {
		return nil, err
	}
	ch, grp, err := s.g.channelWithGroup(ctx, op, msg.Channel)
	if err != nil {
		return nil, err
	}
	res := policy.Resource{Group: grp, Channel: ch, Message: msg}
	if err := s.g.authorize(principal, policy.OpCreateThread, res); err != nil {
		return nil, err
	}

	if msg.Thread != nil {
		existing, err := s.liveThread(ctx, op, *msg.Thread)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return threadView(principal, existing), nil
		}
	}

	thread := &models.Channel{
		ID:      s.g.nextID(),
		Group:   grp.ID,
		Name:    name,
		Members: []int64{principal},
		Private: true,
	}
	if err := s.g.repos.Channels().Create(ctx, thread); err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}
	if err := s.g.repos.Groups().AddChannel(ctx, grp.ID, thread.ID); err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}

	set, err := s.g.repos.Messages().SetThread(ctx, mid, msg.Thread, thread.ID)
	if err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}
	if set {
		s.g.log.Info(ctx, "thread created", "message", mid, "thread", thread.ID)
		return thread, nil
	}

	// Lost the race, or the message disappeared meanwhile.
	if err := s.discard(ctx, op, thread); err != nil {
		return nil, err
	}
	msg, err = s.message(ctx, op, mid)
	if err != nil {
		return nil, err
	}
	if msg.Thread == nil {
		return nil, s.g.storeErr(ctx, op, errors.New("thread not attached"))
	}
	winner, err := s.g.channel(ctx, op, *msg.Thread)
	if err != nil {
		return nil, err
	}
	return threadView(principal, winner), nil
}

// liveThread loads a message's thread channel; nil means it was deleted.
func (s *MessageService) liveThread(ctx context.Context, op string, tid int64) (*models.Channel, error) {
	th, err := s.g.repos.Channels().Get(ctx, tid)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}
	return th, nil
}

// threadView hides a thread's details from principals outside it.
func threadView(principal int64, th *models.Channel) *models.Channel {
	if th.HasMember(principal) {
		return th
	}
	return &models.Channel{ID: th.ID, Group: th.Group, Private: th.Private}
}

func (s *MessageService) discard(ctx context.Context, op string, ch *models.Channel) error {
	if err := s.g.repos.Groups().RemoveChannel(ctx, ch.Group, ch.ID); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	if err := s.g.repos.Channels().Delete(ctx, ch.ID); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

// Delete removes a message. Its author or an admin of the group may do so.
// An attached thread channel stays.
func (s *MessageService) Delete(ctx context.Context, principal, mid int64) error {
	const op = "message.delete"

	msg, err := s.message(ctx, op, mid)
	if err != nil {
		return err
	}

	res := policy.Resource{Message: msg}
	ch, grp, err := s.g.channelWithGroup(ctx, op, msg.Channel)
	switch {
	case err == nil:
		res.Channel, res.Group = ch, grp
	case !errors.Is(err, common.ErrorNotFound):
		return err
	}
	if err := s.g.authorize(principal, policy.OpDeleteMessage, res); err != nil {
		return err
	}

	if err := s.g.repos.Messages().Delete(ctx, mid); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

func (s *MessageService) message(ctx context.Context, op string, mid int64) (*models.Message, error) {
	msg, err := s.g.repos.Messages().Get(ctx, mid)
	if err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}
	return msg, nil
}
