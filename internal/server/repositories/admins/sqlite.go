package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/dbx"
	"github.com/dmitrijs2005/folio/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, email, passwordHash string) (*models.Admin, error) {
	now := time.Now().UTC()
	a := &models.Admin{ID: uuid.NewString(), Email: normalizeEmail(email), PasswordHash: passwordHash}

	query := `INSERT INTO admins (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, a.ID, a.Email, a.PasswordHash, common.FormatTimestamp(now)); err != nil {
		var sqliteErr *sqlite.Error
		// the primary code is enough: email is the only constraint a caller can break
		if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.CreatedAt, _ = common.ParseTimestamp(common.FormatTimestamp(now))
	return a, nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `SELECT id, email, password_hash, created_at FROM admins WHERE email = ?`

	var created string
	a := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, normalizeEmail(email)).Scan(&a.ID, &a.Email, &a.PasswordHash, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.CreatedAt, _ = common.ParseTimestamp(created)
	return a, nil
}
