package cmd

import (
	"github.com/KaramelBytes/biotab-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	descLoad       loadFlags
	descColumns    []string
	descFormat     string
	descOutputPath string
	descSampleRows int
	descTopValues  int
	descOutliers   bool
	descOutlierThr float64
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Summarize every column (or the selected ones) of a dataset",
	Long: `Loads a dataset and reports, per column, either numeric statistics (count, mean, median,
max, min) or the count of each distinct value for categorical columns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := descLoad.load(cmd, args[0])
		if err != nil {
			return err
		}
		opt := analysisOptions(descSampleRows, descTopValues)
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = descOutliers
		}
		if descOutlierThr > 0 {
			opt.OutlierThreshold = descOutlierThr
		}
		rep, err := analysis.Analyze(ds, opt, descColumns...)
		if err != nil {
			return err
		}
		content, err := renderReport(rep, descFormat)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), descOutputPath, content, "report")
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	descLoad.register(describeCmd)
	describeCmd.Flags().StringArrayVarP(&descColumns, "column", "c", nil, "column to describe (repeat for several; default all)")
	describeCmd.Flags().StringVarP(&descFormat, "format", "f", "md", "output format: md | json | csv")
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the report")
	describeCmd.Flags().IntVar(&descSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables)")
	describeCmd.Flags().IntVar(&descTopValues, "top", 10, "categories listed per column in Markdown (0 = all)")
	describeCmd.Flags().BoolVar(&descOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	describeCmd.Flags().Float64Var(&descOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
}
