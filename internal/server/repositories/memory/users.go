package memory

import (
	"context"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	if err := r.s.fail("users.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		r.s.users[user.ID] = *user
	}
	return nil
}

func (r *UserRepository) Get(_ context.Context, id int64) (*models.User, error) {
	if err := r.s.fail("users.Get"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *UserRepository) Exists(_ context.Context, id int64) (bool, error) {
	if err := r.s.fail("users.Exists"); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.users[id]
	return ok, nil
}

func (r *UserRepository) GetHash(_ context.Context, id int64) (string, error) {
	if err := r.s.fail("users.GetHash"); err != nil {
		return "", err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	return u.Hash, nil
}

func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	if err := r.s.fail("users.Update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	u.Username = user.Username
	u.Email = user.Email
	r.s.users[user.ID] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	if err := r.s.fail("users.Delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}
