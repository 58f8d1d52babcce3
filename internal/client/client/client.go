package client

import (
	"context"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

// Client is the API surface the CLI uses.
type Client interface {
	Ping(ctx context.Context) error
	Signup(ctx context.Context, name, email, hash string) (*models.User, error)
	Login(ctx context.Context, id int64, hash string) error
	Logout()
	User(ctx context.Context, id int64) (*models.User, error)
	Groups(ctx context.Context) ([]models.Group, error)
	DMs(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, name string) (*models.Group, error)
	CreateDM(ctx context.Context, uid int64) (*models.Group, error)
	LeaveGroup(ctx context.Context, gid int64) error
	LeaveDM(ctx context.Context, gid int64) error
}
