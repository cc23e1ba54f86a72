package metrics

import (
	"context"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

// InstrumentedTable records call counts and latency for a MovieTable.
type InstrumentedTable struct {
	next domain.MovieTable
}

var _ domain.MovieTable = (*InstrumentedTable)(nil)

// InstrumentTable wraps table with prometheus instrumentation
func InstrumentTable(table domain.MovieTable) *InstrumentedTable {
	return &InstrumentedTable{next: table}
}

// Unwrap returns the wrapped table
func (t *InstrumentedTable) Unwrap() domain.MovieTable {
	return t.next
}

func observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	TableRequestsTotal.WithLabelValues(op, result).Inc()
	TableRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (t *InstrumentedTable) Select(ctx context.Context, opts domain.SelectOptions) ([]domain.Movie, error) {
	start := time.Now()
	movies, err := t.next.Select(ctx, opts)
	observe("select", start, err)
	return movies, err
}

func (t *InstrumentedTable) Count(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := t.next.Count(ctx)
	observe("count", start, err)
	return n, err
}

func (t *InstrumentedTable) Insert(ctx context.Context, movie domain.MovieInput) (domain.Movie, error) {
	start := time.Now()
	m, err := t.next.Insert(ctx, movie)
	observe("insert", start, err)
	return m, err
}

func (t *InstrumentedTable) Update(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	start := time.Now()
	m, err := t.next.Update(ctx, movie)
	observe("update", start, err)
	return m, err
}

func (t *InstrumentedTable) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := t.next.Delete(ctx, id)
	observe("delete", start, err)
	return err
}
