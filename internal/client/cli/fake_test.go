package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/scuttlebutt/internal/client/config"
	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

// fakeAPI is an in-memory client.Client.
type fakeAPI struct {
	pingErr error

	users  map[int64]*models.User
	hashes map[int64]string
	nextID int64
	token  int64

	groups []models.Group
	dms    []models.Group
	left   []int64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{users: map[int64]*models.User{}, hashes: map[int64]string{}, nextID: 100}
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) Signup(_ context.Context, name, email, hash string) (*models.User, error) {
	if name == "" {
		return nil, common.ErrorBadRequest
	}
	f.nextID++
	u := &models.User{ID: f.nextID, Username: name, Email: email}
	f.users[u.ID] = u
	f.hashes[u.ID] = hash
	return u, nil
}

func (f *fakeAPI) Login(_ context.Context, id int64, hash string) error {
	want, ok := f.hashes[id]
	if !ok {
		return common.ErrorNotFound
	}
	if want != hash {
		return common.ErrorUnauthorized
	}
	f.token = id
	return nil
}

func (f *fakeAPI) Logout() { f.token = 0 }

func (f *fakeAPI) User(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeAPI) Groups(context.Context) ([]models.Group, error) { return f.groups, nil }
func (f *fakeAPI) DMs(context.Context) ([]models.Group, error)    { return f.dms, nil }

func (f *fakeAPI) CreateGroup(_ context.Context, name string) (*models.Group, error) {
	if name == "" {
		return nil, common.ErrorBadRequest
	}
	g := models.Group{ID: int64(len(f.groups) + 1), Name: name, Owner: f.token, Members: []int64{f.token}}
	f.groups = append(f.groups, g)
	return &g, nil
}

func (f *fakeAPI) CreateDM(_ context.Context, uid int64) (*models.Group, error) {
	if _, ok := f.users[uid]; !ok {
		return nil, common.ErrorNotFound
	}
	g := models.Group{ID: 50 + int64(len(f.dms)), IsDM: true, Members: []int64{f.token, uid}}
	f.dms = append(f.dms, g)
	return &g, nil
}

func (f *fakeAPI) LeaveGroup(_ context.Context, gid int64) error {
	for _, dm := range f.dms {
		if dm.ID == gid {
			return common.ErrorBadRequest
		}
	}
	f.left = append(f.left, gid)
	return nil
}

func (f *fakeAPI) LeaveDM(_ context.Context, gid int64) error {
	for i, dm := range f.dms {
		if dm.ID == gid {
			f.dms = append(f.dms[:i], f.dms[i+1:]...)
			f.left = append(f.left, gid)
			return nil
		}
	}
	return common.ErrorBadRequest
}

func newTestApp(t *testing.T, api *fakeAPI, input string) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{
		config: cfg,
		api:    api,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, out
}

// stubPassword makes getPassword return a copy of pw.
func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}
