package components

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMovieFormInput(t *testing.T) {
	tests := []struct {
		name       string
		year       string
		rating     string
		poster     string
		wantErrs   map[string]string
		wantRating float64
	}{
		{name: "valid", year: "2010", rating: "8.8", wantRating: 8.8},
		{name: "empty rating is zero", year: "2010", rating: "", wantRating: 0},
		{name: "year not a number", year: "twenty", rating: "8", wantErrs: map[string]string{"year": "Year must be a whole number"}},
		{name: "rating not a number", year: "2010", rating: "abc", wantErrs: map[string]string{"rating": "Rating must be a number"}},
		{name: "rating out of range", year: "2010", rating: "11", wantErrs: map[string]string{"rating": "Rating must be at most 10"}},
		{name: "year too early", year: "1700", rating: "5", wantErrs: map[string]string{"year": "Year must be 1888 or later"}},
		{name: "bad poster", year: "2010", rating: "5", poster: "not a url", wantErrs: map[string]string{"poster": "Must be a valid URL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewMovieForm()
			f.ShowAdd()
			f.SetValue(FieldTitle, "Inception")
			f.SetValue(FieldDirector, "Christopher Nolan")
			f.SetValue(FieldYear, tt.year)
			f.SetValue(FieldRating, tt.rating)
			f.SetValue(FieldPoster, tt.poster)

			in, err := f.Input(now)
			if tt.wantErrs == nil {
				require.NoError(t, err)
				assert.Equal(t, "Inception", in.Title)
				assert.Equal(t, 2010, in.Year)
				assert.Equal(t, tt.wantRating, in.Rating)
				return
			}

			var verr domain.ValidationError
			require.ErrorAs(t, err, &verr)
			for field, msg := range tt.wantErrs {
				assert.Equal(t, msg, verr[field])
			}
		})
	}
}

func TestMovieFormShowEdit(t *testing.T) {
	movie := domain.SampleMovies()[1]

	f := NewMovieForm()
	f.ShowEdit(movie)

	editing, ok := f.Editing()
	require.True(t, ok)
	assert.Equal(t, movie.ID, editing.ID)

	in, err := f.Input(now)
	require.NoError(t, err)
	assert.Equal(t, movie.Input(), in)

	f.Hide()
	_, ok = f.Editing()
	assert.False(t, ok)
	assert.False(t, f.IsVisible())
}

func TestMovieFormFocusAndSubmit(t *testing.T) {
	f := NewMovieForm()
	f.ShowAdd()
	assert.Equal(t, FieldTitle, f.Focused())

	f, _, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab}, now)
	assert.Equal(t, FieldDirector, f.Focused())

	f, _, _ = f.Update(tea.KeyMsg{Type: tea.KeyShiftTab}, now)
	f, _, _ = f.Update(tea.KeyMsg{Type: tea.KeyShiftTab}, now)
	assert.Equal(t, FieldDescription, f.Focused())

	// Typing goes to the focused field
	f, _, _ = f.Update(runes("x"), now)
	f.SetValue(FieldTitle, "Heat")
	f.SetValue(FieldDirector, "Michael Mann")
	f.SetValue(FieldYear, "1995")

	// Enter on the last field submits
	f, _, submitted := f.Update(tea.KeyMsg{Type: tea.KeyEnter}, now)
	require.True(t, submitted)
	assert.Empty(t, f.Errors())

	in, err := f.Input(now)
	require.NoError(t, err)
	assert.Equal(t, "x", in.Description)
}

func TestMovieFormEnterAdvances(t *testing.T) {
	f := NewMovieForm()
	f.ShowAdd()

	f, _, submitted := f.Update(tea.KeyMsg{Type: tea.KeyEnter}, now)
	assert.False(t, submitted)
	assert.Equal(t, FieldDirector, f.Focused())
}

func TestMovieFormSubmitFocusesFirstError(t *testing.T) {
	f := NewMovieForm()
	f.ShowAdd()
	f.SetValue(FieldTitle, "Heat")
	f.SetValue(FieldDirector, "Michael Mann")
	f.SetValue(FieldYear, "1995")
	f.SetValue(FieldRating, "12")

	f, _, submitted := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS}, now)
	assert.False(t, submitted)
	assert.Equal(t, FieldRating, f.Focused())
	assert.Contains(t, f.View(), "Rating must be at most 10")
}

func TestMovieListNavigation(t *testing.T) {
	l := NewMovieList("Movies", DefaultListKeys())
	l.SetSize(60, 20)
	l.SetMovies(domain.SampleMovies())

	require.Equal(t, 3, l.ItemCount())
	assert.Equal(t, 0, l.SelectedIndex())

	l.Update(runes("j"))
	l.Update(runes("j"))
	l.Update(runes("j"))
	assert.Equal(t, 2, l.SelectedIndex())

	l.Update(runes("g"))
	assert.Equal(t, 0, l.SelectedIndex())

	l.Update(runes("G"))
	selected, ok := l.SelectedMovie()
	require.True(t, ok)
	assert.Equal(t, "3", selected.ID)
}

func TestMovieListKeepsSelectionAcrossRefresh(t *testing.T) {
	movies := domain.SampleMovies()

	l := NewMovieList("Movies", DefaultListKeys())
	l.SetSize(60, 20)
	l.SetMovies(movies)
	require.True(t, l.SelectID("2"))

	added := domain.Movie{ID: "9", Title: "Heat", Year: 1995}
	l.SetMovies(append([]domain.Movie{added}, movies...))

	selected, _ := l.SelectedMovie()
	assert.Equal(t, "2", selected.ID)
	assert.False(t, l.SelectID("missing"))
}

func TestMovieListFilter(t *testing.T) {
	l := NewMovieList("Movies", DefaultListKeys())
	l.SetSize(60, 20)
	l.SetMovies(domain.SampleMovies())

	l.Update(runes("/"))
	require.True(t, l.IsFilterTyping())

	for _, r := range "god" {
		l.Update(runes(string(r)))
	}
	require.Equal(t, 1, l.ItemCount())
	selected, _ := l.SelectedMovie()
	assert.Equal(t, "The Godfather", selected.Title)

	// Enter accepts the filter and returns keys to navigation
	l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, l.IsFiltering())
	assert.False(t, l.IsFilterTyping())

	l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, l.IsFiltering())
	assert.Equal(t, 3, l.ItemCount())
}

func TestMovieListEmptyAndLoading(t *testing.T) {
	l := NewMovieList("Movies", DefaultListKeys())
	l.SetSize(60, 20)

	_, ok := l.SelectedMovie()
	assert.False(t, ok)
	assert.Nil(t, l.Update(runes("j")))

	l.SetLoading(true)
	assert.Contains(t, l.View(), SpinnerFrames[0])
}

func TestToasts(t *testing.T) {
	var toasts Toasts

	for i := 0; i < MaxToasts+2; i++ {
		toasts.Push(domain.Notification{Title: "Movie Added"})
	}
	assert.Equal(t, MaxToasts, toasts.Len())

	id := toasts.Push(domain.Notification{
		Title:       "Movie Deleted",
		Description: `"Heat" has been removed from your collection.`,
		Variant:     domain.VariantDestructive,
	})
	latest, ok := toasts.Latest()
	require.True(t, ok)
	assert.Equal(t, "Movie Deleted", latest.Title)
	assert.Contains(t, toasts.View(), "Movie Deleted")

	toasts.Dismiss(id)
	toasts.Dismiss(12345)
	assert.Equal(t, MaxToasts-1, toasts.Len())
}

func TestConfirmDelete(t *testing.T) {
	var c ConfirmDelete
	assert.Empty(t, c.View())

	movie := domain.SampleMovies()[0]
	c.Show(movie)
	assert.True(t, c.IsVisible())
	assert.Equal(t, movie.ID, c.Movie().ID)
	assert.Contains(t, c.View(), "Delete movie?")

	c.Hide()
	assert.False(t, c.IsVisible())
}

func TestInspector(t *testing.T) {
	i := NewInspector()
	i.SetSize(50, 20)
	assert.False(t, i.HasMovie())

	movie := domain.SampleMovies()[2]
	i.SetMovie(&movie)
	require.True(t, i.HasMovie())

	view := i.View()
	assert.Contains(t, view, "The Dark Knight")
	assert.Contains(t, view, "Christopher Nolan")

	i.ScrollUp()
	i.ScrollDown()
	assert.NotEmpty(t, i.View())
}

func TestWordWrap(t *testing.T) {
	assert.Equal(t, "one two\nthree", wordWrap("one two three", 8))
}
