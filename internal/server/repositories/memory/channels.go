package memory

import (
	"context"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

type ChannelRepository struct{ s *Store }

func (r *ChannelRepository) Create(_ context.Context, channel *models.Channel) error {
	if err := r.s.fail("channels.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.channels[channel.ID]; !ok {
		r.s.channels[channel.ID] = cloneChannel(channel)
	}
	return nil
}

func (r *ChannelRepository) Get(_ context.Context, cid int64) (*models.Channel, error) {
	if err := r.s.fail("channels.Get"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.channels[cid]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneChannel(c), nil
}

func (r *ChannelRepository) Exists(_ context.Context, cid int64) (bool, error) {
	if err := r.s.fail("channels.Exists"); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.channels[cid]
	return ok, nil
}

func (r *ChannelRepository) Rename(_ context.Context, cid int64, name string) error {
	return r.mutate("channels.Rename", cid, true, func(c *models.Channel) { c.Name = name })
}

func (r *ChannelRepository) SetPrivate(_ context.Context, cid int64, private bool) error {
	return r.mutate("channels.SetPrivate", cid, true, func(c *models.Channel) { c.Private = private })
}

func (r *ChannelRepository) Delete(_ context.Context, cid int64) error {
	if err := r.s.fail("channels.Delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.channels, cid)
	return nil
}

func (r *ChannelRepository) AddMember(_ context.Context, cid, uid int64) error {
	return r.mutate("channels.AddMember", cid, true, func(c *models.Channel) { c.Members = addID(c.Members, uid) })
}

func (r *ChannelRepository) RemoveMember(_ context.Context, cid, uid int64) error {
	return r.mutate("channels.RemoveMember", cid, false, func(c *models.Channel) { c.Members = removeID(c.Members, uid) })
}

func (r *ChannelRepository) Members(_ context.Context, cid int64) ([]int64, error) {
	if err := r.s.fail("channels.Members"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.channels[cid]
	if !ok {
		return []int64{}, nil
	}
	return cloneIDs(c.Members), nil
}

func (r *ChannelRepository) mutate(op string, cid int64, strict bool, fn func(*models.Channel)) error {
	if err := r.s.fail(op); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.channels[cid]
	if !ok {
		if strict {
			return common.ErrorNotFound
		}
		return nil
	}
	fn(c)
	return nil
}
