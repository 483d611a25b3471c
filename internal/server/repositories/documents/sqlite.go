package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/dbx"
	"github.com/dmitrijs2005/folio/internal/server/models"
)

// SQLiteRepository keeps documents as JSON text and relies on the JSON1
// functions bundled with modernc.org/sqlite.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func jsonPath(field string) string {
	return "$." + field
}

func (r *SQLiteRepository) List(ctx context.Context, collection string, order models.Order) ([]models.Document, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}

	query := `SELECT id, fields, created_at FROM documents WHERE collection = ?`
	args := []any{collection}
	query, args = r.orderClause(query, args, order)

	return r.query(ctx, collection, query, args...)
}

func (r *SQLiteRepository) FindBy(ctx context.Context, collection, field, value string, order models.Order) ([]models.Document, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	if err := checkOrder(order); err != nil {
		return nil, err
	}

	query := `SELECT id, fields, created_at FROM documents WHERE collection = ? AND json_extract(fields, ?) = ?`
	args := []any{collection, jsonPath(field), value}
	query, args = r.orderClause(query, args, order)

	return r.query(ctx, collection, query, args...)
}

func (r *SQLiteRepository) orderClause(query string, args []any, order models.Order) (string, []any) {
	if order.Field == "" {
		return query + ` ORDER BY created_at, id`, args
	}
	args = append(args, jsonPath(order.Field))
	query += fmt.Sprintf(` ORDER BY json_extract(fields, ?) %s NULLS LAST, created_at, id`, sqlDirection(order.Direction))
	return query, args
}

func (r *SQLiteRepository) query(ctx context.Context, collection, query string, args ...any) ([]models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var raw, created string
		d := models.Document{Collection: collection}
		if err := rows.Scan(&d.ID, &raw, &created); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		if d.Fields, err = decodeFields([]byte(raw)); err != nil {
			return nil, err
		}
		d.CreatedAt, _ = common.ParseTimestamp(created)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return docs, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	query := `SELECT fields, created_at FROM documents WHERE collection = ? AND id = ?`

	var raw, created string
	if err := r.db.QueryRowContext(ctx, query, collection, id).Scan(&raw, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	fields, err := decodeFields([]byte(raw))
	if err != nil {
		return nil, err
	}
	d := &models.Document{ID: id, Collection: collection, Fields: fields}
	d.CreatedAt, _ = common.ParseTimestamp(created)
	return d, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	now := r.now()
	b, err := prepareFields(fields, now)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	query := `INSERT INTO documents (id, collection, fields, created_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, id, collection, string(b), common.FormatTimestamp(now)); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// Update merges fields into the stored object; keys not mentioned are kept.
func (r *SQLiteRepository) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	b, err := prepareFields(fields, r.now())
	if err != nil {
		return err
	}

	query := `UPDATE documents SET fields = json_patch(fields, ?) WHERE collection = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, string(b), collection, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, collection, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func (r *SQLiteRepository) DeleteBy(ctx context.Context, collection, field, value string) (int64, error) {
	if err := checkField(field); err != nil {
		return 0, err
	}

	query := `DELETE FROM documents WHERE collection = ? AND json_extract(fields, ?) = ?`
	res, err := r.db.ExecContext(ctx, query, collection, jsonPath(field), value)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
