package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmptyRows      = errors.New("no rows to insert")
	ErrColumnMismatch = errors.New("rows have different column sets")
	ErrNoColumns      = errors.New("no columns given")
	ErrEmptyFilter    = errors.New("filter has no conditions")
	ErrBadOperator    = errors.New("unsupported filter operator")
)

// QueryError описывает ошибку выполнения запроса: операцию, текст SQL и исходную ошибку драйвера.
type QueryError struct {
	Op    string
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Code возвращает SQLSTATE ошибки PostgreSQL или пустую строку, если ошибка пришла не от сервера.
func (e *QueryError) Code() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func queryError(op, query string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Op: op, Query: query, Err: err}
}
