package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/dbx"
	"github.com/dmitrijs2005/folio/internal/server/models"
)

// SQLiteRepository stores expiry as fixed-width UTC text, so string
// comparison in DeleteExpired is chronological.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, adminID string, token string, validity time.Duration) error {
	now := time.Now()
	query := `INSERT INTO refresh_tokens (admin_id, token, expires_at, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, adminID, token,
		common.FormatTimestamp(now.Add(validity)), common.FormatTimestamp(now))
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	var expires string
	rt := &models.RefreshToken{Token: token}
	err := r.db.QueryRowContext(ctx, `SELECT admin_id, expires_at FROM refresh_tokens WHERE token = ?`, token).
		Scan(&rt.AdminID, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	rt.Expires, _ = common.ParseTimestamp(expires)
	return rt, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < ?`, common.FormatTimestamp(now))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}
