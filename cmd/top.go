package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/KaramelBytes/salesloom-cli/internal/aggregate"
	"github.com/KaramelBytes/salesloom-cli/internal/rank"
	"github.com/KaramelBytes/salesloom-cli/internal/sales"
	"github.com/spf13/cobra"
)

var (
	topLoad   loadFlags
	topMetric string
	topN      int
)

var topCmd = &cobra.Command{
	Use:   "top <column> [file]",
	Short: "Rank the groups of a column by quantity, revenue or row count",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := inputPath(args, 1)
		if err != nil {
			return err
		}
		metric, err := sales.ParseMetric(topMetric)
		if err != nil {
			return err
		}
		lo, so, err := topLoad.options(cmd.Flags())
		if err != nil {
			return err
		}
		n := so.TopN
		if cmd.Flags().Changed("n") {
			n = topN
		}
		_, t, err := loadSanitized(cmd, path, lo)
		if err != nil {
			return err
		}
		res, err := sales.GroupTotals(t, args[0], metric, so)
		if err != nil {
			return err
		}
		if len(res) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No rows.")
			return nil
		}
		best, err := rank.FindBest(res, aggregate.ByMetric(0))
		if err != nil {
			return err
		}
		format := func(v float64) string {
			switch metric {
			case sales.MetricRevenue:
				return sales.Money(v)
			case sales.MetricCount:
				return fmt.Sprintf("%d", int(v))
			default:
				return sales.Units(v)
			}
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Best %s by %s: %s (%s)\n", args[0], metric, best.Key, format(best.Metric(0)))

		ranked := rank.RankDescending(res, aggregate.MetricAt(0))
		if n > 0 && n < len(ranked) {
			ranked = ranked[:n]
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "#\t%s\t%s\tROWS\n", args[0], metric)
		for i, r := range ranked {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, r.Key, format(r.Metric(0)), r.Size)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(topCmd)
	topLoad.bind(topCmd.Flags())
	topCmd.Flags().StringVarP(&topMetric, "metric", "m", "revenue", "metric: quantity | revenue | count")
	topCmd.Flags().IntVarP(&topN, "n", "n", 3, "number of entries to list (0 = all; default from config)")
}
