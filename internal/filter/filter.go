// Package filter builds reusable row filters. Constructors are curried: the
// column (or key) is bound first, then the value, and the result is applied
// to any sequence of rows.
package filter

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/salesloom-cli/internal/table"
)

// Func returns the ordered subsequence of rows it selects.
type Func func(rows []table.Row) ([]table.Row, error)

// KeyFunc derives a comparison key from a row.
type KeyFunc func(r table.Row) (string, error)

// ByColumn binds a column and returns a constructor of exact-match filters
// on that column. Partial applications are safe to reuse.
func ByColumn(column string) func(value string) Func {
	return ByKey(Column(column))
}

// ByKey is the derived-key variant of ByColumn: rows are kept when key(row)
// equals the bound value.
func ByKey(key KeyFunc) func(value string) Func {
	return func(value string) Func {
		return func(rows []table.Row) ([]table.Row, error) {
			out := make([]table.Row, 0)
			for _, r := range rows {
				k, err := key(r)
				if err != nil {
					return nil, err
				}
				if k == value {
					out = append(out, r)
				}
			}
			return out, nil
		}
	}
}

// Column is the identity key: the raw value stored under column.
func Column(column string) KeyFunc {
	return func(r table.Row) (string, error) { return r.Value(column) }
}

// MonthOf extracts the two-character month token at offset of a date-like
// value (offset 3 for DD-MM-YYYY or DD/MM/YYYY) and returns it zero-padded,
// so "1" and "01" compare equal.
func MonthOf(column string, offset int) KeyFunc {
	return func(r table.Row) (string, error) {
		v, err := r.Value(column)
		if err != nil {
			return "", err
		}
		if offset < 0 || len(v) < offset+2 {
			return "", &table.MalformedFieldError{Column: column, Line: r.Line(), Value: v,
				Err: fmt.Errorf("no month token at offset %d", offset)}
		}
		return MonthToken(column, r.Line(), v[offset:offset+2])
	}
}

// MonthToken validates a month token of one or two ASCII digits and formats
// it as two digits.
func MonthToken(column string, line int, tok string) (string, error) {
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return "", &table.MalformedFieldError{Column: column, Line: line, Value: tok,
				Err: fmt.Errorf("month %q is not numeric", tok)}
		}
	}
	m, err := strconv.Atoi(tok)
	if err != nil || len(tok) > 2 || m < 1 || m > 12 {
		if err == nil {
			err = fmt.Errorf("month %d out of range", m)
		}
		return "", &table.MalformedFieldError{Column: column, Line: line, Value: tok, Err: err}
	}
	return fmt.Sprintf("%02d", m), nil
}

// ByMonth keeps rows whose date column carries the given month.
func ByMonth(column string, offset int, month string) (Func, error) {
	want, err := MonthToken(column, 0, month)
	if err != nil {
		return nil, err
	}
	return ByKey(MonthOf(column, offset))(want), nil
}

// Chain applies filters left to right, each to the previous result.
func Chain(fs ...Func) Func {
	return func(rows []table.Row) ([]table.Row, error) {
		out := append([]table.Row(nil), rows...)
		for _, f := range fs {
			var err error
			if out, err = f(out); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}
