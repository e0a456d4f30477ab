package table

import (
	"errors"
	"fmt"
)

var ErrMissingValue = errors.New("required value missing")

// Column maps one record field to one output cell. Value reports false when
// the field is absent; absent optional fields render as the empty cell.
type Column[T any] struct {
	Field    string
	Header   string
	Optional bool
	Value    func(T) (string, bool)
}

type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

func (t Table) Len() int {
	return len(t.Rows)
}

func Headers[T any](columns []Column[T]) []string {
	headers := make([]string, len(columns))
	for i, column := range columns {
		headers[i] = column.Header
	}
	return headers
}

func Fields[T any](columns []Column[T]) []string {
	fields := make([]string, len(columns))
	for i, column := range columns {
		fields[i] = column.Field
	}
	return fields
}

// Project renders records in their given order. The header is produced even
// when there are no records.
func Project[T any](name string, columns []Column[T], records []T) (Table, error) {
	out := Table{
		Name:   name,
		Header: Headers(columns),
		Rows:   make([][]string, 0, len(records)),
	}
	for i, record := range records {
		row := make([]string, len(columns))
		for j, column := range columns {
			value, ok := column.Value(record)
			if !ok {
				if !column.Optional {
					return Table{}, fmt.Errorf("%s record %d column %s: %w", name, i, column.Header, ErrMissingValue)
				}
				value = ""
			}
			row[j] = value
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
