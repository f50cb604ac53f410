package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var colLoad loadFlags

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "List the columns of a dataset with their detected kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := colLoad.load(cmd, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s): %d rows, %d columns\n", ds.Source, ds.Format, ds.Rows(), len(ds.Columns()))
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tNAME\tKIND\tMISSING")
		for i, c := range ds.Columns() {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, c.Name, c.Kind(), c.MissingCount())
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	colLoad.register(columnsCmd)
}
