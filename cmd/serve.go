package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/biotab-cli/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	serveLoad loadFlags
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Start the local HTTP viewer, optionally with a dataset preloaded",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lopt, err := serveLoad.options(cmd)
		if err != nil {
			return err
		}
		srv := server.New(server.Config{
			Loader:    lopt,
			Analysis:  analysisOptions(-1, -1),
			Plot:      plotOptions(0),
			Sequences: newGenbankClient(),
			Logger:    logrus.StandardLogger(),
		})
		if len(args) == 1 {
			ds, err := srv.Open(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %s (%d rows, %d columns)\n", ds.Source, ds.Rows(), len(ds.Columns()))
		}
		addr := serveAddr
		if addr == "" {
			addr = currentConfig().ServeAddr
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Viewer on http://%s/api/dataset (Ctrl+C to stop)\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveLoad.register(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, 127.0.0.1:8765)")
}
