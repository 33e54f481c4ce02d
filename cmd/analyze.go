package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/salesloom-cli/internal/archive"
	"github.com/KaramelBytes/salesloom-cli/internal/sales"
	"github.com/KaramelBytes/salesloom-cli/internal/utils"
	"github.com/KaramelBytes/salesloom-cli/internal/watch"
	"github.com/spf13/cobra"
)

var (
	anaLoad       loadFlags
	anaSections   []string
	anaTop        int
	anaFormat     string
	anaOutputPath string
	anaSave       bool
	anaWatch      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Summarize a sales export (products, cities, managers, channels, periods)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := inputPath(args, 0)
		if err != nil {
			return err
		}
		if err := validateFormat(anaFormat); err != nil {
			return err
		}
		run := func() error { return runAnalyze(cmd, path) }
		if !anaWatch {
			return run()
		}
		if err := run(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %v\n", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Watching %s for changes (Ctrl+C to stop)\n", path)
		return watch.Watch(cmd.Context(), path, watch.DefaultDelay, run)
	},
}

func runAnalyze(cmd *cobra.Command, path string) error {
	lo, so, err := anaLoad.options(cmd.Flags())
	if err != nil {
		return err
	}
	if so.Sections, err = sales.ParseSections(anaSections); err != nil {
		return err
	}
	if cmd.Flags().Changed("top") {
		if anaTop <= 0 {
			return fmt.Errorf("--top must be > 0")
		}
		so.TopN = anaTop
	}
	ds, t, err := loadSanitized(cmd, path, lo)
	if err != nil {
		return err
	}
	rep, err := sales.Analyze(ds.Name, t, so)
	if err != nil {
		return err
	}
	rep.Warnings = append(ds.Warnings(), rep.Warnings...)
	slog.Debug("analysis complete", "file", ds.Name, "sections", len(so.Sections))

	out, err := renderReport(rep, anaFormat)
	if err != nil {
		return err
	}
	if anaOutputPath != "" && anaOutputPath != "-" {
		if err := utils.WriteOutput(anaOutputPath, out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
	} else {
		writeReport(cmd.OutOrStdout(), out)
	}
	if anaSave {
		if err := saveReport(cmd, path, rep); err != nil {
			return err
		}
	}
	return nil
}

func validateFormat(f string) error {
	switch f {
	case "md", "markdown", "json":
		return nil
	}
	return fmt.Errorf("unsupported --format: %s (use md|json)", f)
}

func renderReport(rep *sales.Report, format string) ([]byte, error) {
	if format == "json" {
		b, err := utils.PrettyJSON(rep)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	return []byte(rep.Markdown()), nil
}

func writeReport(w io.Writer, out []byte) {
	_, _ = w.Write(out)
}

func saveReport(cmd *cobra.Command, source string, rep *sales.Report) error {
	c, err := currentConfig()
	if err != nil {
		return err
	}
	e, err := archive.NewStore(c.ReportsDir).Save(source, rep)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved report %s\n", e.ID)
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaLoad.bind(analyzeCmd.Flags())
	analyzeCmd.Flags().StringSliceVarP(&anaSections, "section", "s", nil, "sections to compute: products|cities|managers|channels|periods|all (repeatable)")
	analyzeCmd.Flags().IntVar(&anaTop, "top", 3, "entries in top listings (default from config)")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "md", "output format: md | json")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (- for stdout)")
	analyzeCmd.Flags().BoolVar(&anaSave, "save", false, "save the report under reports_dir")
	analyzeCmd.Flags().BoolVarP(&anaWatch, "watch", "w", false, "re-run when the file changes")
}
