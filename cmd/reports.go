package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/KaramelBytes/salesloom-cli/internal/archive"
	"github.com/spf13/cobra"
)

var repFormat string

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List or show saved analysis reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := reportStore()
		if err != nil {
			return err
		}
		entries, err := st.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintf(out, "No saved reports in %s\n", st.Dir())
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tROWS")
		for _, e := range entries {
			rows := 0
			if e.Report != nil {
				rows = e.Report.Rows
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", e.ID[:8], e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Source, rows)
		}
		return tw.Flush()
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved report (id or unique prefix)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(repFormat); err != nil {
			return err
		}
		st, err := reportStore()
		if err != nil {
			return err
		}
		e, err := st.Load(args[0])
		if err != nil {
			return err
		}
		if e.Report == nil {
			return fmt.Errorf("report %s has no content", e.ID)
		}
		out, err := renderReport(e.Report, repFormat)
		if err != nil {
			return err
		}
		writeReport(cmd.OutOrStdout(), out)
		return nil
	},
}

func reportStore() (*archive.Store, error) {
	c, err := currentConfig()
	if err != nil {
		return nil, err
	}
	return archive.NewStore(c.ReportsDir), nil
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	reportsShowCmd.Flags().StringVarP(&repFormat, "format", "f", "md", "output format: md | json")
}
