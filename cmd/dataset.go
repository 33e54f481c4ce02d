package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/KaramelBytes/salesloom-cli/internal/group"
	"github.com/KaramelBytes/salesloom-cli/internal/loader"
	"github.com/KaramelBytes/salesloom-cli/internal/sales"
	"github.com/KaramelBytes/salesloom-cli/internal/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// loadFlags are the file reading flags shared by every command that takes a file.
type loadFlags struct {
	delimiter   string
	sheetName   string
	sheetIndex  int
	maxRows     int
	order       string
	monthOffset int
}

func (lf *loadFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default from extension)")
	fs.StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	fs.IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fs.IntVar(&lf.maxRows, "max-rows", 0, "maximum rows to read (0 = unlimited)")
	fs.StringVar(&lf.order, "order", "", "group key order: sorted | first-seen (default from config)")
	fs.IntVar(&lf.monthOffset, "month-offset", 0, "byte offset of the two-digit month in the date column (default from config)")
}

// options merges config values with flags the user set.
func (lf *loadFlags) options(fs *pflag.FlagSet) (loader.Options, sales.Options, error) {
	lo := loader.DefaultOptions()
	so := sales.DefaultOptions()
	if c, err := currentConfig(); err == nil {
		if lo, err = c.LoaderOptions(); err != nil {
			return lo, so, err
		}
		if so, err = c.SalesOptions(); err != nil {
			return lo, so, err
		}
	} else {
		fmt.Fprintf(os.Stderr, "⚠ Warning: using defaults, config unavailable: %v\n", err)
	}
	if fs.Changed("delimiter") {
		d, err := loader.ParseDelimiter(lf.delimiter)
		if err != nil {
			return lo, so, fmt.Errorf("unsupported --delimiter: %w", err)
		}
		lo.Delimiter = d
	}
	if fs.Changed("sheet-name") {
		lo.SheetName = lf.sheetName
	}
	if fs.Changed("sheet-index") {
		lo.SheetIndex = lf.sheetIndex
	}
	if fs.Changed("max-rows") {
		if lf.maxRows < 0 {
			return lo, so, fmt.Errorf("--max-rows must be >= 0")
		}
		lo.MaxRows = lf.maxRows
	}
	if fs.Changed("order") {
		o, err := group.ParseOrder(lf.order)
		if err != nil {
			return lo, so, err
		}
		so.Order = o
	}
	if fs.Changed("month-offset") {
		if lf.monthOffset < 0 {
			return lo, so, fmt.Errorf("--month-offset must be >= 0")
		}
		so.MonthOffset = lf.monthOffset
	}
	return lo, so, nil
}

// inputPath returns the file argument at position i, or the configured data_path.
func inputPath(args []string, i int) (string, error) {
	if len(args) > i && args[i] != "" {
		return args[i], nil
	}
	if c, err := currentConfig(); err == nil && c.DataPath != "" {
		return c.DataPath, nil
	}
	return "", errors.New("no input file: pass a file argument or set data_path (salesloom config set data_path <file>)")
}

// loadSanitized reads path and normalizes whitespace in header and values.
func loadSanitized(cmd *cobra.Command, path string, opt loader.Options) (*loader.Dataset, *table.Table, error) {
	ds, err := loader.Load(path, opt)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range ds.Warnings() {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
	}
	t, err := table.Sanitize(ds.Table)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("sanitized table", "file", ds.Name, "rows", t.Len(), "columns", len(t.Header()))
	return ds, t, nil
}
