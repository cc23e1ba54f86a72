package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmcdole/reel/internal/api"
	"github.com/mmcdole/reel/internal/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the collection over HTTP",
	Long: `Serve the movie collection as a JSON API.

The collection is loaded once at startup. If the backend cannot be reached
the API serves the offline working set and mutations stay local.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		// The server logs to stderr unless a log file is configured explicitly
		logFile, _ := cmd.Flags().GetString("log-file")

		a, err := openApp(nil, logFile)
		if err != nil {
			return err
		}
		defer a.Close()

		if addr == "" {
			addr = a.cfg.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		status := a.initialize(ctx)
		a.logger.Info("collection loaded",
			"connected", status.Connected,
			"source", status.Source,
			"count", status.Count,
		)
		if !status.Connected {
			fmt.Fprintf(os.Stderr, "Warning: backend unavailable (%v), serving %s data\n", status.Err, status.Source)
		}

		if err := metrics.WatchCollection(a.svc); err != nil {
			return fmt.Errorf("failed to register collection metrics: %w", err)
		}

		srv := api.NewServer(a.svc, a.cfg.Server, Version, a.logger)
		fmt.Printf("Listening on %s\n", addr)
		return srv.Serve(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :4000)")
	serveCmd.Flags().String("log-file", "-", "log file, - for stderr")
}
