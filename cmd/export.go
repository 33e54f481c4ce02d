package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/salesloom-cli/internal/export"
	"github.com/KaramelBytes/salesloom-cli/internal/sales"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	expLoad    loadFlags
	expSQLite  string
	expColumns []string
	expMetrics []string
	expRunID   string
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export grouped totals to a SQLite database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if expSQLite == "" {
			return errors.New("--sqlite <path> is required")
		}
		path, err := inputPath(args, 0)
		if err != nil {
			return err
		}
		metrics := make([]sales.Metric, 0, len(expMetrics))
		for _, m := range expMetrics {
			pm, err := sales.ParseMetric(m)
			if err != nil {
				return err
			}
			metrics = append(metrics, pm)
		}
		lo, so, err := expLoad.options(cmd.Flags())
		if err != nil {
			return err
		}
		ds, t, err := loadSanitized(cmd, path, lo)
		if err != nil {
			return err
		}

		columns := expColumns
		if len(columns) == 0 {
			c := so.Columns
			columns = []string{c.Product, c.City, c.Manager, "Month"}
		}
		var totals []export.Total
		for _, col := range columns {
			for _, m := range metrics {
				res, err := sales.GroupTotals(t, col, m, so)
				if err != nil {
					return fmt.Errorf("%s/%s: %w", col, m, err)
				}
				totals = append(totals, export.Totals(col, []string{string(m)}, res)...)
			}
		}

		runID := expRunID
		if runID == "" {
			runID = uuid.NewString()
		}
		if err := export.ExportSQLite(cmd.Context(), expSQLite, runID, ds.Name, totals); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d totals to %s (run %s)\n", len(totals), expSQLite, runID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	expLoad.bind(exportCmd.Flags())
	exportCmd.Flags().StringVar(&expSQLite, "sqlite", "", "path of the SQLite database to write")
	exportCmd.Flags().StringSliceVar(&expColumns, "column", nil, "columns to group by (default: product, city, manager, Month)")
	exportCmd.Flags().StringSliceVar(&expMetrics, "metric", []string{"quantity", "revenue", "count"}, "metrics to export")
	exportCmd.Flags().StringVar(&expRunID, "run-id", "", "run id to write under (default: new uuid)")
}
