package memory

import "context"

type MembershipRepository struct{ s *Store }

func (r *MembershipRepository) update(op string, index map[int64][]int64, uid int64, fn func([]int64) []int64) error {
	if err := r.s.fail(op); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	index[uid] = fn(index[uid])
	if len(index[uid]) == 0 {
		delete(index, uid)
	}
	return nil
}

func (r *MembershipRepository) list(op string, index map[int64][]int64, uid int64) ([]int64, error) {
	if err := r.s.fail(op); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneIDs(index[uid]), nil
}

func (r *MembershipRepository) AddGroup(_ context.Context, uid, gid int64) error {
	return r.update("memberships.AddGroup", r.s.userGrp, uid, func(ids []int64) []int64 { return addID(ids, gid) })
}

func (r *MembershipRepository) RemoveGroup(_ context.Context, uid, gid int64) error {
	return r.update("memberships.RemoveGroup", r.s.userGrp, uid, func(ids []int64) []int64 { return removeID(ids, gid) })
}

func (r *MembershipRepository) Groups(_ context.Context, uid int64) ([]int64, error) {
	return r.list("memberships.Groups", r.s.userGrp, uid)
}

func (r *MembershipRepository) AddDM(_ context.Context, uid, gid int64) error {
	return r.update("memberships.AddDM", r.s.userDM, uid, func(ids []int64) []int64 { return addID(ids, gid) })
}

func (r *MembershipRepository) RemoveDM(_ context.Context, uid, gid int64) error {
	return r.update("memberships.RemoveDM", r.s.userDM, uid, func(ids []int64) []int64 { return removeID(ids, gid) })
}

func (r *MembershipRepository) DMs(_ context.Context, uid int64) ([]int64, error) {
	return r.list("memberships.DMs", r.s.userDM, uid)
}

func (r *MembershipRepository) Clear(_ context.Context, uid int64) error {
	if err := r.s.fail("memberships.Clear"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.userGrp, uid)
	delete(r.s.userDM, uid)
	return nil
}
