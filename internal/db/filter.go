package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Operator — оператор сравнения в условии фильтра.
type Operator string

const (
	OpEq Operator = "="
	OpNe Operator = "<>"
	OpLt Operator = "<"
	OpLe Operator = "<="
	OpGt Operator = ">"
	OpGe Operator = ">="
	OpIn Operator = "IN"
)

// Cond — одно условие вида "колонка оператор значение". Значение всегда передаётся параметром.
type Cond struct {
	Column string
	Op     Operator
	Value  any
}

// Filter — набор условий, объединённых через AND.
type Filter []Cond

func Eq(column string, value any) Cond { return Cond{Column: column, Op: OpEq, Value: value} }
func Ne(column string, value any) Cond { return Cond{Column: column, Op: OpNe, Value: value} }
func Lt(column string, value any) Cond { return Cond{Column: column, Op: OpLt, Value: value} }
func Le(column string, value any) Cond { return Cond{Column: column, Op: OpLe, Value: value} }
func Gt(column string, value any) Cond { return Cond{Column: column, Op: OpGt, Value: value} }
func Ge(column string, value any) Cond { return Cond{Column: column, Op: OpGe, Value: value} }

// In строит условие "колонка = ANY($n)"; values передаётся как массив.
func In(column string, values any) Cond { return Cond{Column: column, Op: OpIn, Value: values} }

// Where — сокращение для Filter{conds...}.
func Where(conds ...Cond) Filter { return Filter(conds) }

// build собирает текст WHERE без ключевого слова. Нумерация параметров начинается с offset+1.
func (f Filter) build(offset int) (string, []any, error) {
	if len(f) == 0 {
		return "", nil, ErrEmptyFilter
	}

	parts := make([]string, 0, len(f))
	args := make([]any, 0, len(f))
	for i, c := range f {
		if c.Column == "" {
			return "", nil, ErrNoColumns
		}
		col := quoteIdent(c.Column)
		placeholder := "$" + strconv.Itoa(offset+i+1)

		switch c.Op {
		case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
			parts = append(parts, col+" "+string(c.Op)+" "+placeholder)
		case OpIn:
			parts = append(parts, col+" = ANY("+placeholder+")")
		default:
			return "", nil, fmt.Errorf("%w: %q", ErrBadOperator, c.Op)
		}
		args = append(args, c.Value)
	}
	return strings.Join(parts, " AND "), args, nil
}

// quoteIdent экранирует имя таблицы или колонки; допускается схема через точку.
func quoteIdent(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
