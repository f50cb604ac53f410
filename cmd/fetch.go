package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/KaramelBytes/biotab-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	fetchRaw        bool
	fetchJSON       bool
	fetchSeqPreview int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <accession>",
	Short: "Look up one GenBank record by accession (single request, no retry)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		client := newGenbankClient()
		out := cmd.OutOrStdout()
		if fetchRaw {
			raw, err := client.FetchRaw(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, raw)
			return err
		}
		rec, err := client.Fetch(ctx, args[0])
		if err != nil {
			return err
		}
		if fetchJSON {
			b, err := utils.PrettyJSON(rec)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		fmt.Fprint(out, rec.Summary(fetchSeqPreview))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchRaw, "raw", false, "print the GenBank flat file as returned")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print the parsed record as JSON")
	fetchCmd.Flags().IntVar(&fetchSeqPreview, "seq-preview", 60, "sequence characters to show (0 = all)")
}
