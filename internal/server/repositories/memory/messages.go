package memory

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

type MessageRepository struct{ s *Store }

func (r *MessageRepository) Create(_ context.Context, msg *models.Message) error {
	if err := r.s.fail("messages.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.messages[msg.ID]; ok {
		return nil
	}
	r.s.messages[msg.ID] = *cloneMessage(*msg)

	ids := append(r.s.byChan[msg.Channel], msg.ID)
	slices.Sort(ids)
	r.s.byChan[msg.Channel] = ids
	return nil
}

func (r *MessageRepository) Get(_ context.Context, mid int64) (*models.Message, error) {
	if err := r.s.fail("messages.Get"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.messages[mid]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneMessage(m), nil
}

func (r *MessageRepository) Exists(_ context.Context, mid int64) (bool, error) {
	if err := r.s.fail("messages.Exists"); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.messages[mid]
	return ok, nil
}

func (r *MessageRepository) Delete(_ context.Context, mid int64) error {
	if err := r.s.fail("messages.Delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[mid]
	if !ok {
		return nil
	}
	delete(r.s.messages, mid)
	r.s.byChan[m.Channel] = removeID(r.s.byChan[m.Channel], mid)
	return nil
}

func (r *MessageRepository) SetThread(_ context.Context, mid int64, prev *int64, tid int64) (bool, error) {
	if err := r.s.fail("messages.SetThread"); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[mid]
	if !ok || !sameThread(m.Thread, prev) {
		return false, nil
	}
	m.Thread = &tid
	r.s.messages[mid] = m
	return true, nil
}

func (r *MessageRepository) List(_ context.Context, cid int64, limit int) ([]models.Message, error) {
	if err := r.s.fail("messages.List"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := r.s.byChan[cid]
	if limit >= 0 && len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	out := make([]models.Message, 0, len(ids))
	for _, id := range ids {
		out = append(out, *cloneMessage(r.s.messages[id]))
	}
	return out, nil
}

func sameThread(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
