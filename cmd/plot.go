package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"github.com/KaramelBytes/biotab-cli/internal/plot"
	"github.com/KaramelBytes/biotab-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	plotLoad       loadFlags
	plotColumn     string
	plotOutputPath string
	plotBins       int
	plotLine       bool
	plotASCII      bool
)

var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Plot a column: histogram for numeric, bar chart of counts for categorical",
	Long: `Renders the chart for one column as PNG (default <name>_<column>.png in the current
directory) or, with --ascii, directly in the terminal. --line plots the values against
their row index instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if plotColumn == "" {
			return fmt.Errorf("--column is required")
		}
		ds, err := plotLoad.load(cmd, args[0])
		if err != nil {
			return err
		}
		col, err := ds.Column(plotColumn)
		if err != nil {
			return err
		}
		opt := plotOptions(plotBins)
		if plotASCII {
			if plotLine {
				return fmt.Errorf("--line cannot be combined with --ascii")
			}
			return plot.ASCII(cmd.OutOrStdout(), col, opt)
		}
		var buf bytes.Buffer
		suffix := "_" + utils.SanitizeName(col.Name) + ".png"
		if plotLine {
			suffix = "_" + utils.SanitizeName(col.Name) + "_line.png"
			err = plot.LinePNG(&buf, col, opt)
		} else {
			err = plot.ColumnPNG(&buf, col, opt)
		}
		if err != nil {
			return err
		}
		out := plotOutputPath
		if out == "" {
			out = utils.OutputPath(".", args[0], suffix)
		}
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return fmt.Errorf("write plot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s plot of %s (%s) to %s\n", chartKind(col.Kind(), plotLine), col.Name, col.Kind(), out)
		return nil
	},
}

func chartKind(kind dataset.Kind, line bool) string {
	switch {
	case line:
		return "line"
	case kind == dataset.KindNumeric:
		return "histogram"
	default:
		return "bar"
	}
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotLoad.register(plotCmd)
	plotCmd.Flags().StringVarP(&plotColumn, "column", "c", "", "column to plot")
	plotCmd.Flags().StringVarP(&plotOutputPath, "output", "o", "", "PNG output path")
	plotCmd.Flags().IntVar(&plotBins, "bins", 0, "histogram bins (default from config, 10)")
	plotCmd.Flags().BoolVar(&plotLine, "line", false, "plot values against row index")
	plotCmd.Flags().BoolVar(&plotASCII, "ascii", false, "draw in the terminal instead of writing a PNG")
}
