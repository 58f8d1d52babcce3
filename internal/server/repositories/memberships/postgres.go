package memberships

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scuttlebutt/internal/dbx"
)

const (
	groupsTable = "user_groups"
	dmsTable    = "user_dms"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) add(ctx context.Context, table string, uid, gid int64) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, group_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, table)
	if _, err := r.db.ExecContext(ctx, query, uid, gid); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) remove(ctx context.Context, table string, uid, gid int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND group_id = $2`, table)
	if _, err := r.db.ExecContext(ctx, query, uid, gid); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) list(ctx context.Context, table string, uid int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT group_id FROM %s WHERE user_id = $1 ORDER BY group_id`, table)
	return dbx.QueryIDs(ctx, r.db, query, uid)
}

func (r *PostgresRepository) AddGroup(ctx context.Context, uid, gid int64) error {
	return r.add(ctx, groupsTable, uid, gid)
}

func (r *PostgresRepository) RemoveGroup(ctx context.Context, uid, gid int64) error {
	return r.remove(ctx, groupsTable, uid, gid)
}

func (r *PostgresRepository) Groups(ctx context.Context, uid int64) ([]int64, error) {
	return r.list(ctx, groupsTable, uid)
}

func (r *PostgresRepository) AddDM(ctx context.Context, uid, gid int64) error {
	return r.add(ctx, dmsTable, uid, gid)
}

func (r *PostgresRepository) RemoveDM(ctx context.Context, uid, gid int64) error {
	return r.remove(ctx, dmsTable, uid, gid)
}

func (r *PostgresRepository) DMs(ctx context.Context, uid int64) ([]int64, error) {
	return r.list(ctx, dmsTable, uid)
}

// Clear drops both indices of uid in one transaction.
func (r *PostgresRepository) Clear(ctx context.Context, uid int64) error {
	return dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, table := range []string{groupsTable, dmsTable} {
			query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table)
			if _, err := tx.ExecContext(ctx, query, uid); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		return nil
	})
}
