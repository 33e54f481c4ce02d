package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/sales"
	"github.com/KaramelBytes/salesloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abLoad     loadFlags
	abSections []string
	abTop      int
	abFormat   string
	abOutDir   string
	abSave     bool
	abQuiet    bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX sales exports with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		if err := validateFormat(abFormat); err != nil {
			return err
		}
		lo, so, err := abLoad.options(cmd.Flags())
		if err != nil {
			return err
		}
		if so.Sections, err = sales.ParseSections(abSections); err != nil {
			return err
		}
		if cmd.Flags().Changed("top") {
			if abTop <= 0 {
				return fmt.Errorf("--top must be > 0")
			}
			so.TopN = abTop
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ds, t, err := loadSanitized(cmd, path, lo)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rep, err := sales.Analyze(ds.Name, t, so)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rep.Warnings = append(ds.Warnings(), rep.Warnings...)
			body, err := renderReport(rep, abFormat)
			if err != nil {
				return err
			}

			written := false
			if abOutDir != "" {
				outFile, err := summaryPath(abOutDir, path, lo.SheetName, abFormat)
				if err != nil {
					return err
				}
				if err := utils.WriteOutput(outFile, body); err != nil {
					return fmt.Errorf("write summary: %w", err)
				}
				if !abQuiet {
					fmt.Fprintf(out, "✓ Wrote analysis to %s\n", outFile)
				}
				written = true
			}
			if abSave {
				if err := saveReport(cmd, path, rep); err != nil {
					return err
				}
				written = true
			}
			if !written && !abQuiet {
				writeReport(out, body)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and drops duplicates.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// summaryPath picks <dir>/<base>[__sheet-name].summary.<ext>, adding a
// numeric suffix instead of overwriting an existing summary.
func summaryPath(dir, input, sheetName, format string) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	ext := ".md"
	if format == "json" {
		ext = ".json"
	}
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if sheetName != "" {
		s := strings.ToLower(strings.TrimSpace(sheetName))
		var b strings.Builder
		for _, r := range s {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			} else if r == ' ' || r == '-' || r == '_' {
				b.WriteRune('-')
			}
		}
		ss := strings.Trim(b.String(), "-")
		if ss == "" {
			ss = "sheet"
		}
		stem += "__sheet-" + ss
	}
	outFile := filepath.Join(dir, stem+".summary"+ext)
	if _, err := os.Stat(outFile); err != nil {
		return outFile, nil
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.summary%s", stem, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand, nil
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abLoad.bind(analyzeBatchCmd.Flags())
	analyzeBatchCmd.Flags().StringSliceVarP(&abSections, "section", "s", nil, "sections to compute (repeatable)")
	analyzeBatchCmd.Flags().IntVar(&abTop, "top", 3, "entries in top listings (default from config)")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "md", "output format: md | json")
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory to write one summary per file")
	analyzeBatchCmd.Flags().BoolVar(&abSave, "save", false, "save each report under reports_dir")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
