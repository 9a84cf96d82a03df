package service

import (
	"context"
	"fmt"
	"time"

	"newsboard/internal/db"
	"newsboard/internal/models"
)

// Store — часть *db.Database, которая нужна сервисам.
type Store interface {
	Select(ctx context.Context, query string, args ...any) ([]db.Row, error)
	Delete(ctx context.Context, table string, filter db.Filter) (int64, error)
	InTx(ctx context.Context, fn func(tx db.TxExecutor) error) error
}

// today возвращает дату now в UTC без времени.
func today(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func rowID(row db.Row, col string) (models.ID, error) {
	switch v := row[col].(type) {
	case int64:
		return models.ID(v), nil
	case int32:
		return models.ID(v), nil
	case int:
		return models.ID(v), nil
	case string:
		return models.ParseID(v)
	default:
		return 0, fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}

func rowString(row db.Row, col string) (string, error) {
	switch v := row[col].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}

func rowDate(row db.Row, col string) (time.Time, error) {
	switch v := row[col].(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("column %s: %w", col, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}
