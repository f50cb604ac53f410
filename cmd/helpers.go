package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/biotab-cli/internal/analysis"
	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"github.com/KaramelBytes/biotab-cli/internal/genbank"
	"github.com/KaramelBytes/biotab-cli/internal/loader"
	"github.com/KaramelBytes/biotab-cli/internal/plot"
	"github.com/KaramelBytes/biotab-cli/internal/utils"
	"github.com/spf13/cobra"
)

// loadFlags are the input options shared by every command that reads a table.
type loadFlags struct {
	delimiter     string
	sheetName     string
	sheetIndex    int
	maxRows       int
	allowNoMarker bool
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX/XLS: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum data rows to load (0 = unlimited)")
	cmd.Flags().BoolVar(&f.allowNoMarker, "allow-missing-marker", false, "SOFT: parse the whole file as the table when !dataset_table_begin is absent")
}

func (f *loadFlags) options(cmd *cobra.Command) (loader.Options, error) {
	opt := loader.DefaultOptions()
	d, err := parseDelimiter(f.delimiter)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	opt.SheetName = f.sheetName
	if f.sheetIndex > 0 {
		opt.SheetIndex = f.sheetIndex
	}
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	opt.AllowMissingMarker = currentConfig().SOFTAllowMissingMarker
	if cmd.Flags().Changed("allow-missing-marker") {
		opt.AllowMissingMarker = f.allowNoMarker
	}
	return opt, nil
}

func (f *loadFlags) load(cmd *cobra.Command, path string) (*dataset.Dataset, error) {
	opt, err := f.options(cmd)
	if err != nil {
		return nil, err
	}
	return loader.Load(path, opt)
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab", "\\t":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

// expandInputs resolves globs, drops duplicates, and sorts the result.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
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
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// uniquePath appends __2, __3, ... before suffix until path does not exist.
func uniquePath(path, suffix string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	base := strings.TrimSuffix(path, suffix)
	for idx := 2; ; idx++ {
		cand := fmt.Sprintf("%s__%d%s", base, idx, suffix)
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func analysisOptions(sampleRows, topValues int) analysis.Options {
	opt := analysis.DefaultOptions()
	if sampleRows >= 0 {
		opt.SampleRows = sampleRows
	}
	if topValues >= 0 {
		opt.TopValues = topValues
	}
	return opt
}

func plotOptions(bins int) plot.Options {
	c := currentConfig()
	opt := plot.Options{Bins: c.HistogramBins, Width: c.PlotWidth, Height: c.PlotHeight}
	if bins > 0 {
		opt.Bins = bins
	}
	return opt
}

func newGenbankClient() *genbank.Client {
	c := currentConfig()
	return genbank.NewClient(
		time.Duration(c.HTTPTimeoutSec)*time.Second,
		genbank.WithBaseURL(c.NCBIBaseURL),
		genbank.WithIdentity(c.NCBIAPIKey, c.NCBIEmail, c.NCBITool),
	)
}

// renderReport formats rep as md, json or csv.
func renderReport(rep *analysis.Report, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "md", "markdown":
		return rep.Markdown(), nil
	case "json":
		b, err := utils.PrettyJSON(rep)
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "csv":
		return rep.CSV()
	default:
		return "", fmt.Errorf("unsupported --format: %s (use md, json or csv)", format)
	}
}

func reportExt(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return ".json"
	case "csv":
		return ".csv"
	default:
		return ".md"
	}
}

// emit writes content to path, or to out when path is empty.
func emit(out io.Writer, path, content, what string) error {
	if path == "" {
		_, err := fmt.Fprint(out, content)
		return err
	}
	if err := utils.SafeWriteFile(path, []byte(content)); err != nil {
		return fmt.Errorf("write %s: %w", what, err)
	}
	fmt.Fprintf(out, "✓ Wrote %s to %s\n", what, path)
	return nil
}
