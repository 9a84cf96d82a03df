package db

import (
	"slices"
	"strconv"
	"strings"
)

// Row — одна запись: имя колонки → значение.
// Колонки при построении запросов берутся в алфавитном порядке, чтобы SQL был детерминированным.
// Порядок колонок из SELECT хранит Result.
type Row map[string]any

// Columns возвращает отсортированный список колонок записи.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols
}

// Result — строки выборки и имена колонок в том порядке, в котором их вернул сервер.
type Result struct {
	Columns []string
	Rows    []Row
}

// Values возвращает значения i-й строки в порядке Columns.
func (r Result) Values(i int) []any {
	vals := make([]any, len(r.Columns))
	for j, c := range r.Columns {
		vals[j] = r.Rows[i][c]
	}
	return vals
}

func placeholders(from, n int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(from + i))
	}
	b.WriteByte(')')
	return b.String()
}

func quoteList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ",")
}

// buildBulkInsert строит один INSERT на все строки. Все строки обязаны иметь одинаковый набор колонок.
func buildBulkInsert(table string, rows []Row) (string, []any, error) {
	if len(rows) == 0 {
		return "", nil, ErrEmptyRows
	}
	cols := rows[0].Columns()
	if len(cols) == 0 {
		return "", nil, ErrNoColumns
	}

	args := make([]any, 0, len(rows)*len(cols))
	groups := make([]string, 0, len(rows))
	for _, row := range rows {
		if !slices.Equal(row.Columns(), cols) {
			return "", nil, ErrColumnMismatch
		}
		groups = append(groups, placeholders(len(args)+1, len(cols)))
		for _, c := range cols {
			args = append(args, row[c])
		}
	}

	query := "INSERT INTO " + quoteIdent(table) + " (" + quoteList(cols) + ") VALUES " + strings.Join(groups, ",")
	return query, args, nil
}

// buildUpsert строит INSERT ... ON CONFLICT (keys) DO UPDATE для всех неключевых колонок.
// Если все колонки ключевые, конфликт игнорируется.
func buildUpsert(table string, row Row, uniqueKeys []string) (string, []any, error) {
	cols := row.Columns()
	if len(cols) == 0 || len(uniqueKeys) == 0 {
		return "", nil, ErrNoColumns
	}

	args := make([]any, 0, len(cols))
	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		args = append(args, row[c])
		if slices.Contains(uniqueKeys, c) {
			continue
		}
		q := quoteIdent(c)
		sets = append(sets, q+" = EXCLUDED."+q)
	}

	query := "INSERT INTO " + quoteIdent(table) + " (" + quoteList(cols) + ") VALUES " +
		placeholders(1, len(cols)) + " ON CONFLICT (" + quoteList(uniqueKeys) + ")"
	if len(sets) == 0 {
		query += " DO NOTHING"
	} else {
		query += " DO UPDATE SET " + strings.Join(sets, ", ")
	}
	return query, args, nil
}

func buildUpdate(table string, fields Row, filter Filter) (string, []any, error) {
	cols := fields.Columns()
	if len(cols) == 0 {
		return "", nil, ErrNoColumns
	}

	args := make([]any, 0, len(cols)+len(filter))
	sets := make([]string, 0, len(cols))
	for i, c := range cols {
		sets = append(sets, quoteIdent(c)+" = $"+strconv.Itoa(i+1))
		args = append(args, fields[c])
	}

	where, whereArgs, err := filter.build(len(args))
	if err != nil {
		return "", nil, err
	}
	args = append(args, whereArgs...)

	query := "UPDATE " + quoteIdent(table) + " SET " + strings.Join(sets, ", ") + " WHERE " + where
	return query, args, nil
}

func buildDelete(table string, filter Filter) (string, []any, error) {
	where, args, err := filter.build(0)
	if err != nil {
		return "", nil, err
	}
	return "DELETE FROM " + quoteIdent(table) + " WHERE " + where, args, nil
}
