package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/KaramelBytes/salesloom-cli/internal/sales"
	"github.com/spf13/cobra"
)

var grpLoad loadFlags

var groupsCmd = &cobra.Command{
	Use:   "groups <column> [file]",
	Short: "List the distinct values of a column with row counts",
	Long: `List the distinct values of a column in group order with their row counts.
The column "Month" is derived from the date column when the file has no such column.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := inputPath(args, 1)
		if err != nil {
			return err
		}
		lo, so, err := grpLoad.options(cmd.Flags())
		if err != nil {
			return err
		}
		_, t, err := loadSanitized(cmd, path, lo)
		if err != nil {
			return err
		}
		kv, err := sales.Distinct(t, args[0], so)
		if err != nil {
			return err
		}
		if len(kv) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No rows.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "%s\tROWS\n", args[0])
		for _, g := range kv {
			fmt.Fprintf(tw, "%s\t%d\n", g.Key, int(g.Value))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	grpLoad.bind(groupsCmd.Flags())
}
