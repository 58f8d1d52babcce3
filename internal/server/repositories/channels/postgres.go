package channels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/dbx"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

const insertMember = `INSERT INTO channel_members (channel_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create writes the channel row and its initial members in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, channel *models.Channel) error {
	return dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO channels (id, group_id, name, private)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`

		if _, err := tx.ExecContext(ctx, query, channel.ID, channel.Group, channel.Name, channel.Private); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		for _, uid := range channel.Members {
			if _, err := tx.ExecContext(ctx, insertMember, channel.ID, uid); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) Get(ctx context.Context, cid int64) (*models.Channel, error) {
	query :=
		`SELECT id, group_id, name, private FROM channels
		 WHERE id = $1`

	c := &models.Channel{}
	err := r.db.QueryRowContext(ctx, query, cid).Scan(&c.ID, &c.Group, &c.Name, &c.Private)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if c.Members, err = r.Members(ctx, cid); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, cid int64) (bool, error) {
	return dbx.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM channels WHERE id = $1)`, cid)
}

func (r *PostgresRepository) Rename(ctx context.Context, cid int64, name string) error {
	return r.update(ctx, `UPDATE channels SET name = $2 WHERE id = $1`, cid, name)
}

func (r *PostgresRepository) SetPrivate(ctx context.Context, cid int64, private bool) error {
	return r.update(ctx, `UPDATE channels SET private = $2 WHERE id = $1`, cid, private)
}

func (r *PostgresRepository) update(ctx context.Context, query string, cid int64, value any) error {
	res, err := r.db.ExecContext(ctx, query, cid, value)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes the channel and, via ON DELETE CASCADE, its members.
func (r *PostgresRepository) Delete(ctx context.Context, cid int64) error {
	return r.exec(ctx, `DELETE FROM channels WHERE id = $1`, cid)
}

func (r *PostgresRepository) AddMember(ctx context.Context, cid, uid int64) error {
	return r.exec(ctx, insertMember, cid, uid)
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, cid, uid int64) error {
	return r.exec(ctx, `DELETE FROM channel_members WHERE channel_id = $1 AND user_id = $2`, cid, uid)
}

func (r *PostgresRepository) Members(ctx context.Context, cid int64) ([]int64, error) {
	return dbx.QueryIDs(ctx, r.db, `SELECT user_id FROM channel_members WHERE channel_id = $1 ORDER BY user_id`, cid)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
