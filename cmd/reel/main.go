package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/adapter/source"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/library"
	"github.com/mmcdole/reel/internal/metrics"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "reel - a small movie collection manager",
	Long: `reel keeps a movie collection in a remote table and lets you browse,
add, edit and delete movies from the terminal or over HTTP.

When the backend cannot be reached it works offline from the last local
snapshot or from a built-in sample collection.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"reel version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ~/.config/reel/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(cacheCmd)
}

// app holds everything a command needs to drive the collection
type app struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	svc     *library.Service
	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// openApp loads configuration and wires the collection. The logging
// override replaces the configured log file ("-" logs to stderr).
func openApp(notifier domain.Notifier, logFile string) (*app, error) {
	cfg, err := adapter.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}

	a := &app{cfg: cfg}

	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		a.closers = append(a.closers, logCloser)
	}
	slog.SetDefault(logger)
	a.logger = logger

	logger.Info("starting reel", "version", Version, "driver", cfg.Backend.Driver)

	var table domain.MovieTable
	remote, err := source.NewTable(&cfg.Backend, logger)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		logger.Warn("backend not configured, using local data", "error", err)
	case err != nil:
		a.Close()
		return nil, fmt.Errorf("failed to create backend: %w", err)
	default:
		if c, ok := remote.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
		table = metrics.InstrumentTable(remote)
	}

	var snapshots domain.SnapshotStore
	snap, err := store.NewSnapshotStore(cfg.CachePath(), backendKey(cfg))
	if err != nil {
		logger.Warn("snapshot store unavailable", "error", err)
	} else {
		snapshots = snap
		a.closers = append(a.closers, snap)
	}

	a.svc = library.NewService(table, snapshots, notifier, domain.SelectOptions{
		OrderBy:   cfg.Backend.OrderBy,
		Ascending: cfg.Backend.Ascending,
		Limit:     cfg.Backend.Limit,
	}, logger)
	return a, nil
}

// backendKey identifies the backend for snapshot isolation
func backendKey(cfg *adapter.Config) string {
	if cfg.Backend.Driver == adapter.DriverPostgres {
		return cfg.Backend.DSN
	}
	return cfg.Backend.URL
}

// seedingCollection seeds an empty remote table right after the initial
// load when backend.seed_when_empty is set
type seedingCollection struct {
	*library.Service
	seed   bool
	logger *slog.Logger
}

func (c seedingCollection) Initialize(ctx context.Context) library.Status {
	status := c.Service.Initialize(ctx)
	if !c.seed || !status.Connected || status.Count > 0 {
		return status
	}

	n, err := c.Seed(ctx)
	if err != nil {
		c.logger.Warn("seeding empty table failed", "error", err)
		return status
	}
	status.Count = n
	return status
}

func (a *app) collection() seedingCollection {
	return seedingCollection{
		Service: a.svc,
		seed:    a.cfg.Backend.SeedWhenEmpty,
		logger:  a.logger,
	}
}

// backendTimeout returns backend.timeout, or the default when it is not positive
func (a *app) backendTimeout() time.Duration {
	if a.cfg.Backend.Timeout <= 0 {
		return tui.DefaultTimeout
	}
	return a.cfg.Backend.Timeout
}

// initialize performs the initial load bounded by the backend timeout
func (a *app) initialize(ctx context.Context) library.Status {
	ctx, cancel := context.WithTimeout(ctx, a.backendTimeout())
	defer cancel()
	return a.collection().Initialize(ctx)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("reel needs a terminal; use 'reel list' or 'reel serve' instead")
	}

	notifier := tui.NewNotifier()
	a, err := openApp(notifier, "")
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewModel(a.collection(), tui.Options{
		Notifications: notifier.C(),
		Timeout:       a.backendTimeout(),
		Logger:        a.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
