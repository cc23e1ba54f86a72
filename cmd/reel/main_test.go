package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/library"
	"github.com/mmcdole/reel/internal/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTable is an in-memory MovieTable that honors context cancellation.
type memTable struct {
	mu        sync.Mutex
	rows      []domain.Movie
	inserts   int
	selectErr error
	deadline  time.Duration // time left on the last Select context
}

func (f *memTable) Select(ctx context.Context, _ domain.SelectOptions) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := ctx.Deadline(); ok {
		f.deadline = time.Until(d)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return append([]domain.Movie(nil), f.rows...), nil
}

func (f *memTable) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(f.rows), nil
}

func (f *memTable) Insert(ctx context.Context, in domain.MovieInput) (domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return domain.Movie{}, err
	}
	f.inserts++
	m := in.WithID(fmt.Sprintf("row-%d", f.inserts))
	f.rows = append([]domain.Movie{m}, f.rows...)
	return m, nil
}

func (f *memTable) Update(_ context.Context, movie domain.Movie) (domain.Movie, error) {
	return movie, nil
}

func (f *memTable) Delete(context.Context, string) error {
	return nil
}

func newTestApp(table domain.MovieTable, backend adapter.BackendConfig) *app {
	logger := slog.New(slog.DiscardHandler)
	return &app{
		cfg:    &adapter.Config{Backend: backend},
		logger: logger,
		svc:    library.NewService(table, nil, nil, domain.SelectOptions{}, logger),
	}
}

func TestInitializeTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{name: "zero uses default", timeout: 0, want: tui.DefaultTimeout},
		{name: "negative uses default", timeout: -time.Second, want: tui.DefaultTimeout},
		{name: "configured", timeout: 5 * time.Second, want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &memTable{rows: domain.SampleMovies()}
			a := newTestApp(table, adapter.BackendConfig{Timeout: tt.timeout})

			assert.Equal(t, tt.want, a.backendTimeout())

			status := a.initialize(context.Background())
			require.True(t, status.Connected, "err: %v", status.Err)
			assert.Equal(t, library.SourceRemote, status.Source)
			assert.Equal(t, 3, status.Count)

			assert.Greater(t, table.deadline, time.Duration(0))
			assert.LessOrEqual(t, table.deadline, tt.want)
		})
	}
}

func TestSeedingCollectionInitialize(t *testing.T) {
	tests := []struct {
		name        string
		seed        bool
		rows        []domain.Movie
		selectErr   error
		wantInserts int
		wantCount   int
		wantConn    bool
	}{
		{name: "empty table is seeded", seed: true, wantInserts: 3, wantCount: 3, wantConn: true},
		{name: "non-empty table is left alone", seed: true, rows: domain.SampleMovies()[:1], wantInserts: 0, wantCount: 1, wantConn: true},
		{name: "disconnected does not seed", seed: true, selectErr: errors.New("connection refused"), wantInserts: 0, wantCount: 3, wantConn: false},
		{name: "seeding disabled", seed: false, wantInserts: 0, wantCount: 0, wantConn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &memTable{rows: tt.rows, selectErr: tt.selectErr}
			a := newTestApp(table, adapter.BackendConfig{SeedWhenEmpty: tt.seed})

			status := a.initialize(context.Background())
			assert.Equal(t, tt.wantConn, status.Connected)
			assert.Equal(t, tt.wantInserts, table.inserts)
			assert.Equal(t, tt.wantCount, status.Count)
			assert.Len(t, a.svc.List().Movies, tt.wantCount)
		})
	}
}
