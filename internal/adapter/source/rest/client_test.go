package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "test-key", "movies", time.Second, slog.New(slog.DiscardHandler))
}

func TestSelectBuildsQueryAndCoercesFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/movies", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":"a1","created_at":"2024-05-01T10:00:00.123456+00:00","title":"Heat","director":"Michael Mann","year":1995,"rating":8.3,"poster":null,"description":null},
			{"id":42,"created_at":"2024-04-01T10:00:00+00:00","title":"Alien","director":null,"year":"1979","rating":"8.5","poster":"https://example.com/a.jpg","description":"In space"},
			{"id":"b2","title":"Broken","year":"unknown","rating":""}
		]`)
	})

	movies, err := client.Select(context.Background(), domain.SelectOptions{OrderBy: "created_at", Limit: 10})
	require.NoError(t, err)
	require.Len(t, movies, 3)

	assert.Equal(t, "a1", movies[0].ID)
	assert.Equal(t, 1995, movies[0].Year)
	assert.Equal(t, 8.3, movies[0].Rating)
	assert.Empty(t, movies[0].Poster)
	assert.Equal(t, 2024, movies[0].CreatedAt.Year())

	assert.Equal(t, "42", movies[1].ID)
	assert.Equal(t, 1979, movies[1].Year)
	assert.Equal(t, 8.5, movies[1].Rating)
	assert.Empty(t, movies[1].Director)
	assert.Equal(t, "In space", movies[1].Description)

	assert.Equal(t, 0, movies[2].Year)
	assert.Equal(t, 0.0, movies[2].Rating)
	assert.True(t, movies[2].CreatedAt.IsZero())
}

func TestSelectAscendingWithoutLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "title.asc", r.URL.Query().Get("order"))
		assert.Empty(t, r.URL.Query().Get("limit"))
		io.WriteString(w, `[]`)
	})

	movies, err := client.Select(context.Background(), domain.SelectOptions{OrderBy: "title", Ascending: true})
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestInsertReturnsServerRow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Inception", body["title"])
		assert.NotContains(t, body, "id")

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":"srv-1","title":"Inception","director":"Christopher Nolan","year":2010,"rating":8.8,"poster":"","description":""}]`)
	})

	movie, err := client.Insert(context.Background(), domain.MovieInput{
		Title: "Inception", Director: "Christopher Nolan", Year: 2010, Rating: 8.8,
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", movie.ID)
	assert.Equal(t, "Inception", movie.Title)
}

func TestUpdateFiltersByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.m-7", r.URL.Query().Get("id"))
		io.WriteString(w, `[{"id":"m-7","title":"Updated","year":2001,"rating":7}]`)
	})

	movie, err := client.Update(context.Background(), domain.Movie{ID: "m-7", Title: "Updated", Year: 2001, Rating: 7})
	require.NoError(t, err)
	assert.Equal(t, "Updated", movie.Title)
}

func TestUpdateMissingRow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	_, err := client.Update(context.Background(), domain.Movie{ID: "nope", Title: "x"})
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
}

func TestDelete(t *testing.T) {
	var gotID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotID = r.URL.Query().Get("id")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Delete(context.Background(), "m-9"))
	assert.Equal(t, "eq.m-9", gotID)
}

func TestCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		w.Header().Set("Content-Range", "0-2/3")
	})

	n, err := client.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{value: "*/0", want: 0},
		{value: "0-24/3573", want: 3573},
		{value: "0-24/*", wantErr: true},
		{value: "", wantErr: true},
		{value: "0-1/abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			n, err := parseContentRange(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrAuthFailed)
			},
		},
		{
			name:   "postgrest error",
			status: http.StatusBadRequest,
			body:   `{"code":"42P01","message":"relation \"public.movies\" does not exist"}`,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
				assert.Equal(t, "42P01", statusErr.Code)
				assert.Contains(t, err.Error(), "does not exist")
			},
		},
		{
			name:   "server error is not retried",
			status: http.StatusServiceUnavailable,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := client.Select(context.Background(), domain.SelectOptions{})
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, "k", "", time.Second, nil)
	_, err := client.Select(context.Background(), domain.SelectOptions{})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestFlexNumber(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{in: `9.3`, want: 9.3, valid: true},
		{in: `"9.3"`, want: 9.3, valid: true},
		{in: `" 1994 "`, want: 1994, valid: true},
		{in: `null`, valid: false},
		{in: `"n/a"`, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n FlexNumber
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.valid, n.Valid)
			assert.Equal(t, tt.want, n.Value)
		})
	}
}
