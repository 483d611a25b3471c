package admins

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/folio/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgres_Create_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+admins\b.*RETURNING\s+created_at`).
		WithArgs(sqlmock.AnyArg(), "owner@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	a, err := repo.Create(context.Background(), "  Owner@Example.com ", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "owner@example.com", a.Email)
	assert.Equal(t, created, a.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Create_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+admins`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), "owner@example.com", "hash")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestPostgres_Create_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+admins`).WillReturnError(errors.New("boom"))

	_, err := repo.Create(context.Background(), "owner@example.com", "hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestPostgres_GetByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	q := regexp.QuoteMeta(`WHERE email = $1`)
	mock.ExpectQuery(q).WithArgs("owner@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("a1", "owner@example.com", "hash", created))

	a, err := repo.GetByEmail(context.Background(), "OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "hash", a.PasswordHash)
}

func TestPostgres_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM admins`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
