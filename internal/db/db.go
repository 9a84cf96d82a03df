package db

import (
	"context"
	"fmt"
	"time"

	"newsboard/internal/config"
	"newsboard/internal/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Executor — набор операций, доступных и на пуле, и внутри транзакции.
type Executor interface {
	Select(ctx context.Context, query string, args ...any) ([]Row, error)
	Query(ctx context.Context, query string, args ...any) (Result, error)
	SelectOne(ctx context.Context, query string, args ...any) (Row, error)
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	BulkInsert(ctx context.Context, table string, rows []Row) (int64, error)
	Upsert(ctx context.Context, table string, row Row, uniqueKeys []string) (int64, error)
	Update(ctx context.Context, table string, fields Row, filter Filter) (int64, error)
	Delete(ctx context.Context, table string, filter Filter) (int64, error)
}

// querier покрывает общие методы *pgxpool.Pool и pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Database инкапсулирует пул соединений к PostgreSQL.
type Database struct {
	Pool *pgxpool.Pool
}

// NewDB создаёт пул соединений по настройкам cfg и проверяет, что база доступна.
// Пользователь и пароль из cfg, если заданы, перекрывают значения из DSN.
func NewDB(ctx context.Context, cfg config.Database) (*Database, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}
	if cfg.User != "" {
		poolCfg.ConnConfig.User = cfg.User
	}
	if cfg.Password != "" {
		poolCfg.ConnConfig.Password = cfg.Password
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return &Database{Pool: pool}, nil
}

// Close закрывает пул соединений.
func (db *Database) Close() {
	db.Pool.Close()
}

func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Select выполняет запрос на чтение и возвращает все строки в порядке, заданном базой.
func (db *Database) Select(ctx context.Context, query string, args ...any) ([]Row, error) {
	res, err := selectRows(ctx, db.Pool, query, args)
	return res.Rows, err
}

// Query как Select, но дополнительно возвращает порядок колонок из SELECT.
func (db *Database) Query(ctx context.Context, query string, args ...any) (Result, error) {
	return selectRows(ctx, db.Pool, query, args)
}

// SelectOne возвращает первую строку результата или nil, если строк нет.
func (db *Database) SelectOne(ctx context.Context, query string, args ...any) (Row, error) {
	return selectOne(ctx, db.Pool, query, args)
}

// Exec выполняет INSERT/UPDATE/DELETE и возвращает число затронутых строк.
func (db *Database) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execQuery(ctx, db.Pool, "exec", query, args)
}

// BulkInsert вставляет все строки одним запросом в отдельной транзакции.
func (db *Database) BulkInsert(ctx context.Context, table string, rows []Row) (int64, error) {
	var n int64
	err := db.InTx(ctx, func(tx TxExecutor) error {
		var err error
		n, err = tx.BulkInsert(ctx, table, rows)
		return err
	})
	return n, err
}

// Upsert вставляет строку или обновляет её при конфликте по uniqueKeys. Выполняется в отдельной транзакции.
func (db *Database) Upsert(ctx context.Context, table string, row Row, uniqueKeys []string) (int64, error) {
	var n int64
	err := db.InTx(ctx, func(tx TxExecutor) error {
		var err error
		n, err = tx.Upsert(ctx, table, row, uniqueKeys)
		return err
	})
	return n, err
}

func (db *Database) Update(ctx context.Context, table string, fields Row, filter Filter) (int64, error) {
	var n int64
	err := db.InTx(ctx, func(tx TxExecutor) error {
		var err error
		n, err = tx.Update(ctx, table, fields, filter)
		return err
	})
	return n, err
}

func (db *Database) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	var n int64
	err := db.InTx(ctx, func(tx TxExecutor) error {
		var err error
		n, err = tx.Delete(ctx, table, filter)
		return err
	})
	return n, err
}

func selectRows(ctx context.Context, q querier, query string, args []any) (Result, error) {
	start := time.Now()
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		metrics.ObserveQuery("select", start, err)
		return Result{}, queryError("select", query, err)
	}

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	collected, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (Row, error) {
		m, err := pgx.RowToMap(r)
		return Row(m), err
	})
	metrics.ObserveQuery("select", start, err)
	if err != nil {
		return Result{}, queryError("select", query, err)
	}
	return Result{Columns: cols, Rows: collected}, nil
}

func selectOne(ctx context.Context, q querier, query string, args []any) (Row, error) {
	start := time.Now()
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		metrics.ObserveQuery("select_one", start, err)
		return nil, queryError("select_one", query, err)
	}
	defer rows.Close()

	var row Row
	if rows.Next() {
		m, err := pgx.RowToMap(rows)
		if err != nil {
			metrics.ObserveQuery("select_one", start, err)
			return nil, queryError("select_one", query, err)
		}
		row = Row(m)
	}
	rows.Close()

	err = rows.Err()
	metrics.ObserveQuery("select_one", start, err)
	if err != nil {
		return nil, queryError("select_one", query, err)
	}
	return row, nil
}

func execQuery(ctx context.Context, q querier, op, query string, args []any) (int64, error) {
	start := time.Now()
	tag, err := q.Exec(ctx, query, args...)
	metrics.ObserveQuery(op, start, err)
	if err != nil {
		return 0, queryError(op, query, err)
	}
	return tag.RowsAffected(), nil
}
