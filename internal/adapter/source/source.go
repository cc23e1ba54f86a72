package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/adapter/source/postgres"
	"github.com/mmcdole/reel/internal/adapter/source/rest"
	"github.com/mmcdole/reel/internal/domain"
)

// NewTable creates the remote table for the configured driver.
// Returns domain.ErrNotConfigured when the driver's credentials are missing.
func NewTable(cfg *adapter.BackendConfig, logger *slog.Logger) (domain.MovieTable, error) {
	if cfg == nil {
		return nil, fmt.Errorf("backend config is nil")
	}

	switch cfg.Driver {
	case adapter.DriverREST, "":
		if cfg.URL == "" || cfg.Key == "" {
			return nil, fmt.Errorf("%w: endpoint URL and access key are required", domain.ErrNotConfigured)
		}
		return rest.NewClient(cfg.URL, cfg.Key, cfg.Table, cfg.Timeout, logger), nil

	case adapter.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("%w: database DSN is required", domain.ErrNotConfigured)
		}
		table, err := postgres.Open(cfg.DSN, cfg.Table, logger)
		if err != nil {
			return nil, err
		}
		return table, nil

	default:
		return nil, fmt.Errorf("unknown backend driver: %s", cfg.Driver)
	}
}
