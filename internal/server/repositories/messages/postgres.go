package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/dbx"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) error {
	query :=
		`INSERT INTO messages (id, channel_id, author_id, content, thread_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`

	var thread sql.NullInt64
	if msg.Thread != nil {
		thread = sql.NullInt64{Int64: *msg.Thread, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.Channel, msg.Author, msg.Content, thread, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*models.Message, error) {
	var (
		m      models.Message
		thread sql.NullInt64
	)
	if err := s.Scan(&m.ID, &m.Channel, &m.Author, &m.Content, &thread, &m.CreatedAt); err != nil {
		return nil, err
	}
	if thread.Valid {
		m.Thread = &thread.Int64
	}
	return &m, nil
}

func (r *PostgresRepository) Get(ctx context.Context, mid int64) (*models.Message, error) {
	query :=
		`SELECT id, channel_id, author_id, content, thread_id, created_at FROM messages
		 WHERE id = $1`

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, mid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, mid int64) (bool, error) {
	return dbx.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM messages WHERE id = $1)`, mid)
}

func (r *PostgresRepository) Delete(ctx context.Context, mid int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, mid); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetThread(ctx context.Context, mid int64, prev *int64, tid int64) (bool, error) {
	query :=
		`UPDATE messages SET thread_id = $2
		 WHERE id = $1 AND thread_id IS NOT DISTINCT FROM $3`

	res, err := r.db.ExecContext(ctx, query, mid, tid, prev)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) List(ctx context.Context, cid int64, limit int) ([]models.Message, error) {
	query :=
		`SELECT id, channel_id, author_id, content, thread_id, created_at FROM (
		     SELECT id, channel_id, author_id, content, thread_id, created_at FROM messages
		     WHERE channel_id = $1
		     ORDER BY id DESC
		     LIMIT $2
		 ) recent
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, cid, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	msgs := make([]models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		msgs = append(msgs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msgs, nil
}
