package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row is one record of a Table. It is a value object: the field map is
// private and never mutated after construction.
type Row struct {
	line   int
	fields map[string]string
}

// NewRow builds a Row from a field map. The map is copied.
func NewRow(line int, fields map[string]string) Row {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Row{line: line, fields: cp}
}

// Line is the 1-based data row number in the source file (header excluded).
func (r Row) Line() int { return r.line }

// Has reports whether the row carries the column.
func (r Row) Has(column string) bool {
	_, ok := r.fields[column]
	return ok
}

// Value returns the raw string stored under column.
func (r Row) Value(column string) (string, error) {
	v, ok := r.fields[column]
	if !ok {
		return "", &MissingColumnError{Column: column, Line: r.line}
	}
	return v, nil
}

// Number parses the value under column as a finite float64.
func (r Row) Number(column string) (float64, error) {
	v, err := r.Value(column)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, &MalformedFieldError{Column: column, Line: r.line, Value: v, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &MalformedFieldError{Column: column, Line: r.line, Value: v, Err: errNotFinite}
	}
	return f, nil
}

var errNotFinite = errors.New("value is not a finite number")

// Fields returns a copy of the row's column→value mapping.
func (r Row) Fields() map[string]string {
	cp := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		cp[k] = v
	}
	return cp
}

// Table is an ordered, immutable sequence of rows sharing one header.
type Table struct {
	header []string
	rows   []Row
}

// New builds a Table from a header and raw records in file order.
// Records shorter than the header are padded with empty values; extra
// trailing fields are dropped.
func New(header []string, records [][]string) (*Table, error) {
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, dup := seen[h]; dup {
			return nil, fmt.Errorf("duplicate column %q in header", h)
		}
		seen[h] = struct{}{}
	}
	t := &Table{header: append([]string(nil), header...), rows: make([]Row, 0, len(records))}
	for i, rec := range records {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(rec) {
				fields[h] = rec[j]
			} else {
				fields[h] = ""
			}
		}
		t.rows = append(t.rows, Row{line: i + 1, fields: fields})
	}
	return t, nil
}

// Header returns the column names in file order.
func (t *Table) Header() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.header...)
}

// Rows returns the rows in table order. The slice is a copy; rows are values.
func (t *Table) Rows() []Row {
	if t == nil {
		return nil
	}
	return append([]Row(nil), t.rows...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// HasColumn reports whether column is part of the header.
func (t *Table) HasColumn(column string) bool {
	for _, h := range t.Header() {
		if h == column {
			return true
		}
	}
	return false
}

// Require returns a MissingColumnError for the first column not in the header.
func (t *Table) Require(columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return &MissingColumnError{Column: c}
		}
	}
	return nil
}
