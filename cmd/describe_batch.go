package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/biotab-cli/internal/analysis"
	"github.com/KaramelBytes/biotab-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	dbLoad       loadFlags
	dbFormat     string
	dbOutDir     string
	dbSampleRows int
	dbTopValues  int
	dbQuiet      bool
	dbKeepGoing  bool
)

var describeBatchCmd = &cobra.Command{
	Use:   "describe-batch <files...>",
	Short: "Describe several datasets, one report per file",
	Long: `Each file is loaded and reported independently. With --out-dir, reports are written as
<name>.report.<ext>; an existing report is never overwritten (a __2, __3 ... suffix is added).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt := analysisOptions(dbSampleRows, dbTopValues)
		out := cmd.OutOrStdout()
		total := len(files)
		failed := 0
		for i, path := range files {
			if !dbQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ds, err := dbLoad.load(cmd, path)
			if err == nil {
				var rep *analysis.Report
				if rep, err = analysis.Analyze(ds, opt); err == nil {
					err = writeBatchReport(cmd, rep, path)
				}
			}
			if err != nil {
				if !dbKeepGoing {
					return err
				}
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Skipping %s: %v\n", filepath.Base(path), err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

func writeBatchReport(cmd *cobra.Command, rep *analysis.Report, path string) error {
	content, err := renderReport(rep, dbFormat)
	if err != nil {
		return err
	}
	if dbOutDir == "" {
		if dbQuiet {
			return nil
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), content)
		return err
	}
	suffix := ".report" + reportExt(dbFormat)
	outFile := uniquePath(utils.OutputPath(dbOutDir, path, suffix), suffix)
	if err := utils.SafeWriteFile(outFile, []byte(content)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if !dbQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", outFile)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(describeBatchCmd)
	dbLoad.register(describeBatchCmd)
	describeBatchCmd.Flags().StringVarP(&dbFormat, "format", "f", "md", "output format: md | json | csv")
	describeBatchCmd.Flags().StringVar(&dbOutDir, "out-dir", "", "directory for per-file reports (default: print to stdout)")
	describeBatchCmd.Flags().IntVar(&dbSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables)")
	describeBatchCmd.Flags().IntVar(&dbTopValues, "top", 10, "categories listed per column in Markdown (0 = all)")
	describeBatchCmd.Flags().BoolVar(&dbQuiet, "quiet", false, "suppress progress and non-essential output")
	describeBatchCmd.Flags().BoolVar(&dbKeepGoing, "keep-going", false, "continue with the next file when one fails")
}
