package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/auth"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/memory"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) Next() int64 { return s.n.Add(1) }

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	repos  repomanager.RepositoryManager
	tokens *auth.TokenService
	svc    *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := repomanager.NewMemoryRepositoryManager(store)
	tokens, err := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	return &fixture{
		ctx:    context.Background(),
		store:  store,
		repos:  repos,
		tokens: tokens,
		svc:    New(repos, tokens, WithIDSource(&seqIDs{})),
	}
}

func hashOf(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (f *fixture) signup(t *testing.T, name string) int64 {
	t.Helper()
	u, err := f.svc.Users.Signup(f.ctx, name, name+"@example.com", hashOf(name))
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) group(t *testing.T, gid int64) *models.Group {
	t.Helper()
	g, err := f.repos.Groups().Get(f.ctx, gid)
	require.NoError(t, err)
	return g
}

func (f *fixture) channel(t *testing.T, cid int64) *models.Channel {
	t.Helper()
	c, err := f.repos.Channels().Get(f.ctx, cid)
	require.NoError(t, err)
	return c
}

func (f *fixture) userGroups(t *testing.T, uid int64) []int64 {
	t.Helper()
	ids, err := f.repos.Memberships().Groups(f.ctx, uid)
	require.NoError(t, err)
	return ids
}

func (f *fixture) userDMs(t *testing.T, uid int64) []int64 {
	t.Helper()
	ids, err := f.repos.Memberships().DMs(f.ctx, uid)
	require.NoError(t, err)
	return ids
}

// eng creates users a and b and a group "eng" owned by a, with b added.
func (f *fixture) eng(t *testing.T) (a, b int64, grp *models.Group) {
	t.Helper()
	a = f.signup(t, "alice")
	b = f.signup(t, "bob")
	grp, err := f.svc.Groups.Create(f.ctx, a, "eng")
	require.NoError(t, err)
	require.NoError(t, f.svc.Groups.AddMember(f.ctx, a, grp.ID, b))
	return a, b, grp
}
