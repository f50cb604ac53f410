package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/biotab-cli/internal/analysis"
	"github.com/KaramelBytes/biotab-cli/internal/plot"
	"github.com/KaramelBytes/biotab-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cmpLoad     loadFlags
	cmpFormat   string
	cmpPlotPath string
)

var compareCmd = &cobra.Command{
	Use:   "compare <file> <column-a> <column-b>",
	Short: "Compare two columns of a dataset",
	Long: `numeric x numeric reports the Pearson correlation (and can write a scatter plot),
numeric x categorical reports per-category statistics, and categorical x categorical a
contingency table.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := cmpLoad.load(cmd, args[0])
		if err != nil {
			return err
		}
		a, err := ds.Column(args[1])
		if err != nil {
			return err
		}
		b, err := ds.Column(args[2])
		if err != nil {
			return err
		}
		res, err := analysis.Compare(a, b)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch strings.ToLower(cmpFormat) {
		case "", "md", "markdown":
			fmt.Fprint(out, res.Markdown())
		case "json":
			js, err := utils.PrettyJSON(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(js))
		default:
			return fmt.Errorf("unsupported --format: %s (use md or json)", cmpFormat)
		}
		if cmpPlotPath == "" {
			return nil
		}
		if res.Mode != analysis.ModeNumericNumeric {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Scatter plot skipped: %s is not numeric x numeric\n", res.Mode)
			return nil
		}
		var buf bytes.Buffer
		if err := plot.ScatterPNG(&buf, res.A, res.B, res.X, res.Y, plotOptions(0)); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(cmpPlotPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write plot: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote scatter plot to %s\n", cmpPlotPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	cmpLoad.register(compareCmd)
	compareCmd.Flags().StringVarP(&cmpFormat, "format", "f", "md", "output format: md | json")
	compareCmd.Flags().StringVar(&cmpPlotPath, "plot", "", "write a scatter PNG here (numeric x numeric only)")
}
