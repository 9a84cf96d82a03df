package service

import (
	"context"

	"newsboard/internal/db"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
	tx *mockTx
}

func newMockStore() *mockStore {
	return &mockStore{tx: new(mockTx)}
}

func (m *mockStore) Select(ctx context.Context, query string, args ...any) ([]db.Row, error) {
	ret := m.Called(ctx, query, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]db.Row), ret.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, table string, filter db.Filter) (int64, error) {
	ret := m.Called(ctx, table, filter)
	return ret.Get(0).(int64), ret.Error(1)
}

// InTx сначала сверяется с ожиданием (ошибка начала транзакции), затем передаёт fn мок транзакции.
func (m *mockStore) InTx(ctx context.Context, fn func(tx db.TxExecutor) error) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}
	return fn(m.tx)
}

type mockTx struct {
	mock.Mock
}

func (m *mockTx) Select(ctx context.Context, query string, args ...any) ([]db.Row, error) {
	ret := m.Called(ctx, query, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]db.Row), ret.Error(1)
}

func (m *mockTx) Query(ctx context.Context, query string, args ...any) (db.Result, error) {
	ret := m.Called(ctx, query, args)
	return ret.Get(0).(db.Result), ret.Error(1)
}

func (m *mockTx) SelectOne(ctx context.Context, query string, args ...any) (db.Row, error) {
	ret := m.Called(ctx, query, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(db.Row), ret.Error(1)
}

func (m *mockTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	ret := m.Called(ctx, query, args)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *mockTx) BulkInsert(ctx context.Context, table string, rows []db.Row) (int64, error) {
	ret := m.Called(ctx, table, rows)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *mockTx) Upsert(ctx context.Context, table string, row db.Row, uniqueKeys []string) (int64, error) {
	ret := m.Called(ctx, table, row, uniqueKeys)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *mockTx) Update(ctx context.Context, table string, fields db.Row, filter db.Filter) (int64, error) {
	ret := m.Called(ctx, table, fields, filter)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *mockTx) Delete(ctx context.Context, table string, filter db.Filter) (int64, error) {
	ret := m.Called(ctx, table, filter)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *mockTx) LastInsertID(ctx context.Context) (int64, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}
