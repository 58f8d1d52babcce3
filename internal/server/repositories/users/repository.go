package users

import (
	"context"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

// Repository persists user accounts. Get, GetHash and Update return
// common.ErrorNotFound for an unknown id; Delete of an unknown id is a no-op.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id int64) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	GetHash(ctx context.Context, id int64) (string, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}
