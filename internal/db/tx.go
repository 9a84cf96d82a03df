package db

import (
	"context"
	"errors"
	"time"

	"newsboard/internal/metrics"

	"github.com/jackc/pgx/v5"
)

// TxExecutor — операции внутри транзакции. В отличие от пула, транзакция держит одно
// соединение, поэтому на ней доступен LastInsertID.
type TxExecutor interface {
	Executor
	LastInsertID(ctx context.Context) (int64, error)
}

// Tx — явная область транзакции. Операции на Tx не открывают вложенных транзакций.
type Tx struct {
	tx pgx.Tx
}

// Begin открывает транзакцию на одном соединении из пула.
func (db *Database) Begin(ctx context.Context) (*Tx, error) {
	start := time.Now()
	tx, err := db.Pool.Begin(ctx)
	metrics.ObserveQuery("begin", start, err)
	if err != nil {
		return nil, queryError("begin", "BEGIN", err)
	}
	return &Tx{tx: tx}, nil
}

// InTx выполняет fn в одной транзакции: фиксирует её, если fn вернула nil, иначе откатывает.
func (db *Database) InTx(ctx context.Context, fn func(tx TxExecutor) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Commit фиксирует транзакцию. Ошибка сервера при фиксации (сериализация, отложенные ограничения)
// возвращается как *QueryError.
func (t *Tx) Commit(ctx context.Context) error {
	start := time.Now()
	err := t.tx.Commit(ctx)
	metrics.ObserveQuery("commit", start, err)
	return queryError("commit", "COMMIT", err)
}

// Rollback откатывает транзакцию. Повторный вызов после Commit или Rollback ничего не делает.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return queryError("rollback", "ROLLBACK", err)
	}
	return nil
}

func (t *Tx) Select(ctx context.Context, query string, args ...any) ([]Row, error) {
	res, err := selectRows(ctx, t.tx, query, args)
	return res.Rows, err
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (Result, error) {
	return selectRows(ctx, t.tx, query, args)
}

func (t *Tx) SelectOne(ctx context.Context, query string, args ...any) (Row, error) {
	return selectOne(ctx, t.tx, query, args)
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execQuery(ctx, t.tx, "exec", query, args)
}

func (t *Tx) BulkInsert(ctx context.Context, table string, rows []Row) (int64, error) {
	query, args, err := buildBulkInsert(table, rows)
	if err != nil {
		return 0, err
	}
	return execQuery(ctx, t.tx, "bulk_insert", query, args)
}

func (t *Tx) Upsert(ctx context.Context, table string, row Row, uniqueKeys []string) (int64, error) {
	query, args, err := buildUpsert(table, row, uniqueKeys)
	if err != nil {
		return 0, err
	}
	return execQuery(ctx, t.tx, "upsert", query, args)
}

func (t *Tx) Update(ctx context.Context, table string, fields Row, filter Filter) (int64, error) {
	query, args, err := buildUpdate(table, fields, filter)
	if err != nil {
		return 0, err
	}
	return execQuery(ctx, t.tx, "update", query, args)
}

func (t *Tx) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	query, args, err := buildDelete(table, filter)
	if err != nil {
		return 0, err
	}
	return execQuery(ctx, t.tx, "delete", query, args)
}

// LastInsertID возвращает значение последовательности, выданное последним INSERT на этом соединении.
func (t *Tx) LastInsertID(ctx context.Context) (int64, error) {
	const query = "SELECT lastval()"

	start := time.Now()
	var id int64
	err := t.tx.QueryRow(ctx, query).Scan(&id)
	metrics.ObserveQuery("last_insert_id", start, err)
	if err != nil {
		return 0, queryError("last_insert_id", query, err)
	}
	return id, nil
}
