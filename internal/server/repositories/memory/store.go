// Package memory is an in-process implementation of every repository. It
// backs the server when no database is configured and the service tests.
package memory

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/channels"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/groups"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/memberships"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/messages"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/users"
)

var (
	_ users.Repository       = (*UserRepository)(nil)
	_ groups.Repository      = (*GroupRepository)(nil)
	_ channels.Repository    = (*ChannelRepository)(nil)
	_ messages.Repository    = (*MessageRepository)(nil)
	_ memberships.Repository = (*MembershipRepository)(nil)
)

// Store keeps all entities behind one RWMutex. Values handed out are
// copies, so callers never alias internal state.
type Store struct {
	mu sync.RWMutex

	users    map[int64]models.User
	groups   map[int64]*models.Group
	channels map[int64]*models.Channel
	messages map[int64]models.Message
	byChan   map[int64][]int64
	userGrp  map[int64][]int64
	userDM   map[int64][]int64

	failMu sync.RWMutex
	failOn func(op string) error
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]models.User),
		groups:   make(map[int64]*models.Group),
		channels: make(map[int64]*models.Channel),
		messages: make(map[int64]models.Message),
		byChan:   make(map[int64][]int64),
		userGrp:  make(map[int64][]int64),
		userDM:   make(map[int64][]int64),
	}
}

// FailOn installs a hook consulted before every operation. Operations are
// named "<repo>.<Method>", e.g. "groups.RemoveMember"; a non-nil error from
// the hook is returned instead of touching state. Pass nil to clear it.
func (s *Store) FailOn(fn func(op string) error) {
	s.failMu.Lock()
	s.failOn = fn
	s.failMu.Unlock()
}

func (s *Store) fail(op string) error {
	s.failMu.RLock()
	fn := s.failOn
	s.failMu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn(op)
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s: s} }
func (s *Store) Groups() *GroupRepository           { return &GroupRepository{s: s} }
func (s *Store) Channels() *ChannelRepository       { return &ChannelRepository{s: s} }
func (s *Store) Messages() *MessageRepository       { return &MessageRepository{s: s} }
func (s *Store) Memberships() *MembershipRepository { return &MembershipRepository{s: s} }

func addID(ids []int64, id int64) []int64 {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []int64, id int64) []int64 {
	return slices.DeleteFunc(ids, func(v int64) bool { return v == id })
}

func cloneIDs(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}

func cloneGroup(g *models.Group) *models.Group {
	c := *g
	c.Members = cloneIDs(g.Members)
	c.Admins = cloneIDs(g.Admins)
	c.Channels = cloneIDs(g.Channels)
	return &c
}

func cloneChannel(ch *models.Channel) *models.Channel {
	c := *ch
	c.Members = cloneIDs(ch.Members)
	return &c
}

func cloneMessage(m models.Message) *models.Message {
	if m.Thread != nil {
		t := *m.Thread
		m.Thread = &t
	}
	return &m
}
