package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRemote = errors.New("remote exploded")

// fakeTable is an in-memory MovieTable with injectable failures.
type fakeTable struct {
	mu     sync.Mutex
	rows   []domain.Movie
	nextID int

	selectErr error
	insertErr error
	updateErr error
	deleteErr error

	// failAfter makes Insert fail once that many rows were inserted
	failAfter int

	lastOpts domain.SelectOptions
	inserts  int
}

func (f *fakeTable) Select(_ context.Context, opts domain.SelectOptions) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOpts = opts
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return cloneMovies(f.rows), nil
}

func (f *fakeTable) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows), nil
}

func (f *fakeTable) Insert(_ context.Context, in domain.MovieInput) (domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return domain.Movie{}, f.insertErr
	}
	if f.failAfter > 0 && f.inserts >= f.failAfter {
		return domain.Movie{}, errRemote
	}
	f.nextID++
	f.inserts++
	m := in.WithID(fmt.Sprintf("srv-%d", f.nextID))
	f.rows = append([]domain.Movie{m}, f.rows...)
	return m, nil
}

func (f *fakeTable) Update(_ context.Context, movie domain.Movie) (domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return domain.Movie{}, f.updateErr
	}
	i := domain.FindMovie(f.rows, movie.ID)
	if i < 0 {
		return domain.Movie{}, domain.ErrMovieNotFound
	}
	f.rows[i] = movie
	return movie, nil
}

func (f *fakeTable) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if i := domain.FindMovie(f.rows, id); i >= 0 {
		f.rows = append(f.rows[:i], f.rows[i+1:]...)
	}
	return nil
}

type recorder struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (r *recorder) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) last() domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return domain.Notification{}
	}
	return r.notes[len(r.notes)-1]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func remoteRows() []domain.Movie {
	return []domain.Movie{
		{ID: "a", Title: "Heat", Director: "Michael Mann", Year: 1995, Rating: 8.3},
		{ID: "b", Title: "Alien", Director: "Ridley Scott", Year: 1979, Rating: 8.5},
	}
}

func connectedService(t *testing.T) (*Service, *fakeTable, *recorder) {
	t.Helper()
	table := &fakeTable{rows: remoteRows()}
	rec := &recorder{}
	svc := NewService(table, nil, rec, domain.SelectOptions{OrderBy: domain.OrderByCreatedAt}, quietLogger())
	status := svc.Initialize(context.Background())
	require.True(t, status.Connected)
	return svc, table, rec
}

func disconnectedService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	svc := NewService(nil, nil, rec, domain.SelectOptions{}, quietLogger())
	status := svc.Initialize(context.Background())
	require.False(t, status.Connected)
	return svc, rec
}

func TestNewServiceIsLoading(t *testing.T) {
	svc := NewService(nil, nil, nil, domain.SelectOptions{}, nil)
	snap := svc.List()
	assert.True(t, snap.Loading)
	assert.False(t, snap.Connected)
	assert.Empty(t, snap.Movies)
}

func TestInitializeConnected(t *testing.T) {
	svc, table, _ := connectedService(t)

	snap := svc.List()
	assert.True(t, snap.Connected)
	assert.False(t, snap.Loading)
	assert.Equal(t, remoteRows(), snap.Movies)
	assert.Equal(t, domain.OrderByCreatedAt, table.lastOpts.OrderBy)
}

func TestInitializeEmptyTable(t *testing.T) {
	svc := NewService(&fakeTable{}, nil, nil, domain.SelectOptions{}, quietLogger())
	status := svc.Initialize(context.Background())

	assert.True(t, status.Connected)
	assert.Equal(t, SourceRemote, status.Source)
	assert.Equal(t, 0, status.Count)
	assert.NotNil(t, svc.List().Movies)
}

func TestInitializeUnreachableUsesSamples(t *testing.T) {
	rec := &recorder{}
	svc := NewService(&fakeTable{selectErr: domain.ErrBackendUnavailable}, nil, rec, domain.SelectOptions{}, quietLogger())

	status := svc.Initialize(context.Background())
	assert.False(t, status.Connected)
	assert.Equal(t, SourceSample, status.Source)
	assert.ErrorIs(t, status.Err, domain.ErrBackendUnavailable)

	snap := svc.List()
	assert.False(t, snap.Connected)
	require.Len(t, snap.Movies, 3)
	assert.Equal(t, "The Shawshank Redemption", snap.Movies[0].Title)
	assert.Equal(t, "The Godfather", snap.Movies[1].Title)
	assert.Equal(t, "The Dark Knight", snap.Movies[2].Title)

	assert.Equal(t, "Database Error", rec.last().Title)
	assert.Equal(t, domain.VariantDestructive, rec.last().Variant)
}

func TestInitializeNotConfigured(t *testing.T) {
	svc, _ := disconnectedService(t)
	status := svc.Initialize(context.Background())
	assert.ErrorIs(t, status.Err, domain.ErrNotConfigured)
	assert.Len(t, svc.List().Movies, 3)
}

func TestInitializePrefersSnapshot(t *testing.T) {
	snapshots, err := store.NewSnapshotStore("", "")
	require.NoError(t, err)

	// A connected session saves the remote rows
	online := NewService(&fakeTable{rows: remoteRows()}, snapshots, nil, domain.SelectOptions{}, quietLogger())
	online.Initialize(context.Background())

	// The next session cannot reach the backend
	offline := NewService(&fakeTable{selectErr: errRemote}, snapshots, nil, domain.SelectOptions{}, quietLogger())
	status := offline.Initialize(context.Background())

	assert.False(t, status.Connected)
	assert.Equal(t, SourceSnapshot, status.Source)
	assert.Equal(t, remoteRows(), offline.List().Movies)
}

func TestAddConnected(t *testing.T) {
	svc, table, rec := connectedService(t)
	in := domain.MovieInput{Title: "Inception", Director: "Christopher Nolan", Year: 2010, Rating: 8.8}

	added, err := svc.Add(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "srv-1", added.ID)

	movies := svc.List().Movies
	require.Len(t, movies, 3)
	assert.Equal(t, added, movies[0])
	assert.Equal(t, in, movies[0].Input())

	count := 0
	for _, m := range movies {
		if m.ID == added.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, table.inserts)

	assert.Equal(t, "Movie Added", rec.last().Title)
	assert.Equal(t, `"Inception" has been added to your collection.`, rec.last().Description)
}

func TestAddDisconnectedInception(t *testing.T) {
	svc, _ := disconnectedService(t)

	added, err := svc.Add(context.Background(), domain.MovieInput{
		Title:    "Inception",
		Director: "Christopher Nolan",
		Year:     2010,
		Rating:   8.8,
	})
	require.NoError(t, err)

	movies := svc.List().Movies
	require.Len(t, movies, 4)
	assert.Equal(t, "Inception", movies[0].Title)
	assert.NotEmpty(t, movies[0].ID)
	assert.NotContains(t, []string{"1", "2", "3"}, movies[0].ID)
	assert.Equal(t, added, movies[0])
}

func TestAddDisconnectedRegeneratesCollidingID(t *testing.T) {
	svc, _ := disconnectedService(t)

	ids := []string{"1", "2", "fresh"}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	added, err := svc.Add(context.Background(), domain.MovieInput{Title: "Heat"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", added.ID)
}

func TestAddFailureLeavesWorkingSet(t *testing.T) {
	svc, table, rec := connectedService(t)
	table.insertErr = errRemote
	before := svc.List()

	_, err := svc.Add(context.Background(), domain.MovieInput{Title: "Heat 2"})
	assert.ErrorIs(t, err, errRemote)
	assert.Equal(t, before, svc.List())

	assert.Equal(t, "Error", rec.last().Title)
	assert.Equal(t, "Failed to add movie: remote exploded", rec.last().Description)
	assert.Equal(t, domain.VariantDestructive, rec.last().Variant)
}

func TestUpdateConnected(t *testing.T) {
	svc, table, rec := connectedService(t)
	updated := remoteRows()[1]
	updated.Rating = 9.0
	updated.Description = "In space no one can hear you scream."

	got, err := svc.Update(context.Background(), updated)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	movies := svc.List().Movies
	assert.Equal(t, remoteRows()[0], movies[0])
	assert.Equal(t, updated, movies[1])
	assert.Equal(t, updated, table.rows[domain.FindMovie(table.rows, "b")])
	assert.Equal(t, "Movie Updated", rec.last().Title)
}

func TestUpdateFailureLeavesWorkingSet(t *testing.T) {
	svc, table, _ := connectedService(t)
	table.updateErr = errRemote
	before := svc.List()

	changed := remoteRows()[0]
	changed.Title = "Heat (1995)"
	_, err := svc.Update(context.Background(), changed)
	assert.ErrorIs(t, err, errRemote)
	assert.Equal(t, before, svc.List())
}

func TestUpdateMissingRowConnected(t *testing.T) {
	svc, _, _ := connectedService(t)
	before := svc.List()

	_, err := svc.Update(context.Background(), domain.Movie{ID: "zzz", Title: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
	assert.Equal(t, before, svc.List())
}

func TestUpdateDisconnected(t *testing.T) {
	svc, _ := disconnectedService(t)
	m, ok := svc.Get("2")
	require.True(t, ok)
	m.Rating = 10

	_, err := svc.Update(context.Background(), m)
	require.NoError(t, err)

	got, _ := svc.Get("2")
	assert.Equal(t, m, got)

	// Unknown ids leave the working set alone
	before := svc.List()
	_, err = svc.Update(context.Background(), domain.Movie{ID: "nope", Title: "Nope"})
	require.NoError(t, err)
	assert.Equal(t, before, svc.List())
}

func TestUpdateDisconnectedUnknownSendsNoNotification(t *testing.T) {
	svc, rec := disconnectedService(t)

	_, err := svc.Update(context.Background(), domain.Movie{ID: "nope", Title: "Nope"})
	require.NoError(t, err)
	assert.Equal(t, "Database Error", rec.last().Title)

	m, _ := svc.Get("1")
	m.Rating = 9.4
	_, err = svc.Update(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "Movie Updated", rec.last().Title)
}

func TestDeleteDisconnectedUnknownSendsNoNotification(t *testing.T) {
	svc, rec := disconnectedService(t)

	require.NoError(t, svc.Delete(context.Background(), "nope"))
	assert.Equal(t, "Database Error", rec.last().Title)
}

func TestDeleteConnected(t *testing.T) {
	svc, table, rec := connectedService(t)

	require.NoError(t, svc.Delete(context.Background(), "a"))

	movies := svc.List().Movies
	require.Len(t, movies, 1)
	assert.Equal(t, remoteRows()[1], movies[0])
	assert.Len(t, table.rows, 1)

	assert.Equal(t, "Movie Deleted", rec.last().Title)
	assert.Equal(t, `"Heat" has been removed from your collection.`, rec.last().Description)
}

func TestDeleteUnknownIsNoOp(t *testing.T) {
	svc, _, _ := connectedService(t)
	before := svc.List()

	require.NoError(t, svc.Delete(context.Background(), "missing"))
	assert.Equal(t, before, svc.List())
}

func TestDeleteFailureLeavesWorkingSet(t *testing.T) {
	svc, table, rec := connectedService(t)
	table.deleteErr = errRemote
	before := svc.List()

	assert.ErrorIs(t, svc.Delete(context.Background(), "a"), errRemote)
	assert.Equal(t, before, svc.List())
	assert.Equal(t, "Failed to delete movie: remote exploded", rec.last().Description)
}

func TestDeleteDisconnected(t *testing.T) {
	svc, _ := disconnectedService(t)

	require.NoError(t, svc.Delete(context.Background(), "1"))
	_, ok := svc.Get("1")
	assert.False(t, ok)
	assert.Len(t, svc.List().Movies, 2)
}

func TestMutationFailureKeepsConnected(t *testing.T) {
	svc, table, _ := connectedService(t)
	table.insertErr = domain.ErrBackendUnavailable

	_, err := svc.Add(context.Background(), domain.MovieInput{Title: "Heat"})
	require.Error(t, err)
	assert.True(t, svc.Connected())
}

func TestListReturnsCopy(t *testing.T) {
	svc, _, _ := connectedService(t)

	snap := svc.List()
	snap.Movies[0].Title = "tampered"

	m, _ := svc.Get("a")
	assert.Equal(t, "Heat", m.Title)
}

func TestSeedEmptyTable(t *testing.T) {
	table := &fakeTable{}
	svc := NewService(table, nil, nil, domain.SelectOptions{}, quietLogger())
	svc.Initialize(context.Background())

	n, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, svc.List().Movies, 3)

	// A second seed finds rows and inserts nothing
	n, err = svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 3, table.inserts)
}

func TestSeedNonEmptyTable(t *testing.T) {
	svc, table, _ := connectedService(t)

	n, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, table.inserts)
}

func TestSeedPartialFailureReloads(t *testing.T) {
	table := &fakeTable{failAfter: 2}
	svc := NewService(table, nil, nil, domain.SelectOptions{}, quietLogger())
	svc.Initialize(context.Background())

	n, err := svc.Seed(context.Background())
	assert.ErrorIs(t, err, errRemote)
	assert.Equal(t, 2, n)

	// The working set reflects the rows that made it into the table
	movies := svc.List().Movies
	require.Len(t, movies, 2)
	assert.Equal(t, table.rows, movies)
	assert.True(t, svc.Connected())
}

func TestSeedFirstInsertFails(t *testing.T) {
	table := &fakeTable{}
	svc := NewService(table, nil, nil, domain.SelectOptions{}, quietLogger())
	svc.Initialize(context.Background())
	table.insertErr = errRemote

	n, err := svc.Seed(context.Background())
	assert.ErrorIs(t, err, errRemote)
	assert.Equal(t, 0, n)
	assert.Empty(t, svc.List().Movies)
}

func TestSeedDisconnected(t *testing.T) {
	svc, _ := disconnectedService(t)

	_, err := svc.Seed(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestMutationsSaveSnapshot(t *testing.T) {
	snapshots, err := store.NewSnapshotStore(t.TempDir(), "")
	require.NoError(t, err)
	defer snapshots.Close()

	svc := NewService(nil, snapshots, nil, domain.SelectOptions{}, quietLogger())
	svc.Initialize(context.Background())
	require.NoError(t, svc.Delete(context.Background(), "3"))

	saved, ok := snapshots.GetMovies()
	require.True(t, ok)
	assert.Len(t, saved, 2)
}

func TestConcurrentMutations(t *testing.T) {
	svc, _ := disconnectedService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Add(context.Background(), domain.MovieInput{Title: fmt.Sprintf("Movie %d", i)})
			assert.NoError(t, err)
			_ = svc.List()
		}(i)
	}
	wg.Wait()

	movies := svc.List().Movies
	assert.Len(t, movies, 23)

	seen := make(map[string]bool)
	for _, m := range movies {
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
}
