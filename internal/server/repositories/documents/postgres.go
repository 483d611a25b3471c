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

// PostgresRepository keeps documents in a jsonb column.
type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) List(ctx context.Context, collection string, order models.Order) ([]models.Document, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}

	query := `SELECT id, fields, created_at FROM documents WHERE collection = $1`
	args := []any{collection}
	query, args = r.orderClause(query, args, order)

	return r.query(ctx, collection, query, args...)
}

func (r *PostgresRepository) FindBy(ctx context.Context, collection, field, value string, order models.Order) ([]models.Document, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	if err := checkOrder(order); err != nil {
		return nil, err
	}

	query := `SELECT id, fields, created_at FROM documents WHERE collection = $1 AND fields->>$2::text = $3`
	args := []any{collection, field, value}
	query, args = r.orderClause(query, args, order)

	return r.query(ctx, collection, query, args...)
}

func (r *PostgresRepository) orderClause(query string, args []any, order models.Order) (string, []any) {
	if order.Field == "" {
		return query + ` ORDER BY created_at, id`, args
	}
	args = append(args, order.Field)
	query += fmt.Sprintf(` ORDER BY fields->>$%d::text %s NULLS LAST, created_at, id`, len(args), sqlDirection(order.Direction))
	return query, args
}

func (r *PostgresRepository) query(ctx context.Context, collection, query string, args ...any) ([]models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var raw []byte
		d := models.Document{Collection: collection}
		if err := rows.Scan(&d.ID, &raw, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		if d.Fields, err = decodeFields(raw); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return docs, nil
}

func (r *PostgresRepository) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	query := `SELECT fields, created_at FROM documents WHERE collection = $1 AND id = $2`

	var raw []byte
	d := &models.Document{ID: id, Collection: collection}
	if err := r.db.QueryRowContext(ctx, query, collection, id).Scan(&raw, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	var err error
	if d.Fields, err = decodeFields(raw); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	now := r.now()
	b, err := prepareFields(fields, now)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	query := `INSERT INTO documents (id, collection, fields, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, id, collection, string(b), now.UTC()); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// Update merges fields into the stored object; keys not mentioned are kept.
func (r *PostgresRepository) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	b, err := prepareFields(fields, r.now())
	if err != nil {
		return err
	}

	query := `UPDATE documents SET fields = fields || $3::jsonb WHERE collection = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, collection, id, string(b))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func (r *PostgresRepository) DeleteBy(ctx context.Context, collection, field, value string) (int64, error) {
	if err := checkField(field); err != nil {
		return 0, err
	}

	query := `DELETE FROM documents WHERE collection = $1 AND fields->>$2::text = $3`
	res, err := r.db.ExecContext(ctx, query, collection, field, value)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
