package messages

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "channel_id", "author_id", "content", "thread_id", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`(?s)^INSERT INTO messages .*ON CONFLICT \(id\) DO NOTHING$`).
		WithArgs(int64(100), int64(11), int64(1), "hi", nil, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Message{ID: 100, Channel: 11, Author: 1, Content: "hi", CreatedAt: at})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_WithAndWithoutThread(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, channel_id, author_id, content, thread_id, created_at FROM messages`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(100), int64(11), int64(1), "hi", nil, at))
	mock.ExpectQuery(`SELECT id, channel_id, author_id, content, thread_id, created_at FROM messages`).
		WithArgs(int64(101)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(101), int64(11), int64(1), "yo", int64(50), at))

	m, err := repo.Get(context.Background(), 100)
	require.NoError(t, err)
	assert.Nil(t, m.Thread)
	assert.Equal(t, "hi", m.Content)

	m, err = repo.Get(context.Background(), 101)
	require.NoError(t, err)
	require.NotNil(t, m.Thread)
	assert.Equal(t, int64(50), *m.Thread)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 100)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSetThread_Conditional(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE messages SET thread_id = \$2\s+WHERE id = \$1 AND thread_id IS NOT DISTINCT FROM \$3$`
	mock.ExpectExec(q).WithArgs(int64(100), int64(50), nil).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(int64(100), int64(51), nil).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs(int64(100), int64(52), int64(50)).WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.SetThread(context.Background(), 100, nil, 50)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetThread(context.Background(), 100, nil, 51)
	require.NoError(t, err)
	assert.False(t, ok)

	prev := int64(50)
	ok, err = repo.SetThread(context.Background(), 100, &prev, 52)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)FROM messages\s+WHERE channel_id = \$1\s+ORDER BY id DESC\s+LIMIT \$2.*ORDER BY id$`).
		WithArgs(int64(11), 2).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(101), int64(11), int64(1), "a", nil, at).
			AddRow(int64(102), int64(11), int64(2), "b", nil, at))

	msgs, err := repo.List(context.Background(), 11, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(101), msgs[0].ID)
	assert.Equal(t, int64(102), msgs[1].ID)
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("down"))

	_, err := repo.List(context.Background(), 11, 10)
	assert.ErrorContains(t, err, "db error: down")
}

func TestDeleteAndExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM messages WHERE id = \$1`).WithArgs(int64(100)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM messages WHERE id = \$1\)`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	require.NoError(t, repo.Delete(context.Background(), 100))
	ok, err := repo.Exists(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, ok)
}
