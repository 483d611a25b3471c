// Package documents stores loosely typed content documents grouped by
// collection, on PostgreSQL (jsonb) or SQLite (JSON text).
package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/server/models"
)

// Repository is the content store.
//
// Ordering by a field that some documents lack never fails: those
// documents come last in either direction.
type Repository interface {
	List(ctx context.Context, collection string, order models.Order) ([]models.Document, error)
	FindBy(ctx context.Context, collection, field, value string, order models.Order) ([]models.Document, error)
	Get(ctx context.Context, collection, id string) (*models.Document, error)
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	DeleteBy(ctx context.Context, collection, field, value string) (int64, error)
}

// prepareFields resolves ServerTimestamp sentinels and drops nil values.
func prepareFields(fields map[string]any, now time.Time) ([]byte, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch v {
		case nil:
			continue
		case models.ServerTimestamp:
			out[k] = common.FormatTimestamp(now)
		default:
			out[k] = v
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return b, nil
}

func decodeFields(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(raw) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return fields, nil
}

func checkOrder(order models.Order) error {
	if order.Field == "" {
		return nil
	}
	if !models.ValidFieldName(order.Field) {
		return fmt.Errorf("order field %q: %w", order.Field, common.ErrorValidation)
	}
	if order.Direction != "" && order.Direction != models.Asc && order.Direction != models.Desc {
		return fmt.Errorf("order direction %q: %w", order.Direction, common.ErrorValidation)
	}
	return nil
}

func checkField(field string) error {
	if !models.ValidFieldName(field) {
		return fmt.Errorf("filter field %q: %w", field, common.ErrorValidation)
	}
	return nil
}

func sqlDirection(d models.Direction) string {
	if d == models.Desc {
		return "DESC"
	}
	return "ASC"
}
