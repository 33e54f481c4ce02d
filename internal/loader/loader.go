// Package loader reads sales exports from disk into a table.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/table"
)

// Options controls how files are read.
type Options struct {
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex selects an XLSX sheet by 1-based index when SheetName is empty.
	SheetIndex int
	// MaxRows limits rows kept; 0 means unlimited.
	MaxRows int
}

// DefaultOptions returns the loader defaults.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Dataset is a loaded file.
type Dataset struct {
	Name  string
	Table *table.Table
	// Rows counts data rows in the file; Table may hold fewer when MaxRows applies.
	Rows int
}

// Warnings describes lossy loading.
func (d *Dataset) Warnings() []string {
	if d == nil || d.Table == nil {
		return nil
	}
	if kept := d.Table.Len(); kept < d.Rows {
		return []string{fmt.Sprintf("processed only %d/%d rows due to max_rows", kept, d.Rows)}
	}
	return nil
}

// Loader reads one file format.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (header []string, records [][]string, total int, err error)
}

var registry []Loader

// Register adds a loader to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no registered loader accepts the file.
var ErrUnsupported = errors.New("unsupported file format")

// Load selects a loader by filename and returns the dataset.
func Load(path string, opt Options) (*Dataset, error) {
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		header, records, total, err := l.Load(path, opt)
		if err != nil {
			return nil, err
		}
		t, err := table.New(header, records)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		slog.Debug("loaded dataset", "path", path, "columns", len(header), "rows", total, "kept", t.Len())
		return &Dataset{Name: filepath.Base(path), Table: t, Rows: total}, nil
	}
	return nil, fmt.Errorf("%w: %s (use .csv, .tsv or .xlsx)", ErrUnsupported, filepath.Ext(path))
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

func hasExt(path string, exts ...string) bool {
	e := strings.ToLower(filepath.Ext(path))
	for _, x := range exts {
		if e == x {
			return true
		}
	}
	return false
}

// limit applies MaxRows; the second result is the unlimited row count.
func limit(records [][]string, maxRows int) ([][]string, int) {
	n := len(records)
	if maxRows > 0 && n > maxRows {
		return records[:maxRows], n
	}
	return records, n
}
