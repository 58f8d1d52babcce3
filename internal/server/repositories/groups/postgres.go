package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/dbx"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

const (
	insertMember  = `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	insertAdmin   = `INSERT INTO group_admins (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	insertChannel = `INSERT INTO group_channels (group_id, channel_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	selectMembers  = `SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY user_id`
	selectAdmins   = `SELECT user_id FROM group_admins WHERE group_id = $1 ORDER BY user_id`
	selectChannels = `SELECT channel_id FROM group_channels WHERE group_id = $1 ORDER BY position`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create writes the group row and its member, admin and channel rows in one
// transaction. Re-creating an existing id changes nothing.
func (r *PostgresRepository) Create(ctx context.Context, group *models.Group) error {
	return dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO groups (id, name, owner_id, is_dm)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`

		if _, err := tx.ExecContext(ctx, query, group.ID, group.Name, group.Owner, group.IsDM); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		sets := []struct {
			query string
			ids   []int64
		}{
			{insertMember, group.Members},
			{insertAdmin, group.Admins},
			{insertChannel, group.Channels},
		}
		for _, s := range sets {
			for _, id := range s.ids {
				if _, err := tx.ExecContext(ctx, s.query, group.ID, id); err != nil {
					return fmt.Errorf("db error: %w", err)
				}
			}
		}
		return nil
	})
}

func (r *PostgresRepository) Get(ctx context.Context, gid int64) (*models.Group, error) {
	query :=
		`SELECT id, name, owner_id, is_dm FROM groups
		 WHERE id = $1`

	g := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, gid).Scan(&g.ID, &g.Name, &g.Owner, &g.IsDM)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if g.Members, err = r.Members(ctx, gid); err != nil {
		return nil, err
	}
	if g.Admins, err = r.Admins(ctx, gid); err != nil {
		return nil, err
	}
	if g.Channels, err = r.Channels(ctx, gid); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, gid int64) (bool, error) {
	return dbx.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`, gid)
}

func (r *PostgresRepository) Rename(ctx context.Context, gid int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE groups SET name = $2 WHERE id = $1`, gid, name)
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

// Delete removes the group; member, admin and channel rows go with it via
// ON DELETE CASCADE. Channels themselves are deleted by the caller.
func (r *PostgresRepository) Delete(ctx context.Context, gid int64) error {
	return r.exec(ctx, `DELETE FROM groups WHERE id = $1`, gid)
}

func (r *PostgresRepository) AddMember(ctx context.Context, gid, uid int64) error {
	return r.exec(ctx, insertMember, gid, uid)
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, gid, uid int64) error {
	return r.exec(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, gid, uid)
}

func (r *PostgresRepository) Members(ctx context.Context, gid int64) ([]int64, error) {
	return dbx.QueryIDs(ctx, r.db, selectMembers, gid)
}

func (r *PostgresRepository) AddAdmin(ctx context.Context, gid, uid int64) error {
	return r.exec(ctx, insertAdmin, gid, uid)
}

func (r *PostgresRepository) RemoveAdmin(ctx context.Context, gid, uid int64) error {
	return r.exec(ctx, `DELETE FROM group_admins WHERE group_id = $1 AND user_id = $2`, gid, uid)
}

func (r *PostgresRepository) Admins(ctx context.Context, gid int64) ([]int64, error) {
	return dbx.QueryIDs(ctx, r.db, selectAdmins, gid)
}

func (r *PostgresRepository) AddChannel(ctx context.Context, gid, cid int64) error {
	return r.exec(ctx, insertChannel, gid, cid)
}

func (r *PostgresRepository) RemoveChannel(ctx context.Context, gid, cid int64) error {
	return r.exec(ctx, `DELETE FROM group_channels WHERE group_id = $1 AND channel_id = $2`, gid, cid)
}

func (r *PostgresRepository) Channels(ctx context.Context, gid int64) ([]int64, error) {
	return dbx.QueryIDs(ctx, r.db, selectChannels, gid)
}

// exec runs a write whose only failure mode is a database error. Inserting
// into a group that does not exist violates the foreign key and surfaces as
// such.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
