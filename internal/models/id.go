package models

import (
	"fmt"
	"strconv"
)

// ID — идентификатор записи, выдаваемый хранилищем.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID разбирает десятичный идентификатор, например из аргументов командной строки.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(v), nil
}
