package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Spinner frames for loading animation
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Layout constants for the list
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// MovieList is a scrollable, filterable list of movies
type MovieList struct {
	movies []domain.Movie
	index  *search.FilterIndex
	keys   ListKeys

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool
	title   string

	// Loading state
	loading      bool
	spinnerFrame int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	results      []search.FilterResult // nil when not filtering
}

// NewMovieList creates an empty list
func NewMovieList(title string, keys ListKeys) *MovieList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.AccentStyle

	return &MovieList{
		title:       title,
		keys:        keys,
		filterInput: ti,
		focused:     true,
		index:       search.NewFilterIndex(nil),
	}
}

// SetMovies replaces the list contents, keeping the cursor on the same
// movie when it is still present.
func (l *MovieList) SetMovies(movies []domain.Movie) {
	selectedID := ""
	if m, ok := l.SelectedMovie(); ok {
		selectedID = m.ID
	}

	l.movies = movies
	l.index = search.NewFilterIndex(movies)
	if l.filterActive && l.filterQuery != "" {
		l.results = l.index.Filter(l.filterQuery)
	}

	l.cursor = 0
	if selectedID != "" {
		l.SelectID(selectedID)
	}
	l.clampCursor()
	l.ensureVisible()
}

// SelectID moves the cursor to the movie with id. Returns false when the
// movie is not visible.
func (l *MovieList) SelectID(id string) bool {
	for i := 0; i < l.ItemCount(); i++ {
		if l.movieAt(i).ID == id {
			l.cursor = i
			l.ensureVisible()
			return true
		}
	}
	return false
}

// SelectedMovie returns the movie under the cursor
func (l *MovieList) SelectedMovie() (domain.Movie, bool) {
	if l.cursor < 0 || l.cursor >= l.ItemCount() {
		return domain.Movie{}, false
	}
	return l.movieAt(l.cursor), true
}

// SelectedIndex returns the cursor position
func (l *MovieList) SelectedIndex() int {
	return l.cursor
}

// ItemCount returns the number of visible rows
func (l *MovieList) ItemCount() int {
	if l.results != nil {
		return len(l.results)
	}
	return len(l.movies)
}

// SetLoading toggles the loading placeholder
func (l *MovieList) SetLoading(loading bool) {
	l.loading = loading
}

// SetSpinnerFrame sets the spinner animation frame
func (l *MovieList) SetSpinnerFrame(frame int) {
	l.spinnerFrame = frame
}

// SetFocused marks the list as the active pane
func (l *MovieList) SetFocused(focused bool) {
	l.focused = focused
}

// IsFocused reports whether the list is the active pane
func (l *MovieList) IsFocused() bool {
	return l.focused
}

// SetSize updates the component dimensions
func (l *MovieList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// ToggleFilter activates the filter input
func (l *MovieList) ToggleFilter() {
	l.filterActive = true
	l.filterInput.Focus()
	l.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (l *MovieList) IsFiltering() bool {
	return l.filterActive
}

// IsFilterTyping returns true if the filter input has focus
func (l *MovieList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all movies
func (l *MovieList) ClearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.results = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
	l.clampCursor()
	l.ensureVisible()
}

// Update handles navigation and filter typing
func (l *MovieList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if l.IsFilterTyping() {
			var cmd tea.Cmd
			l.filterInput, cmd = l.filterInput.Update(msg)
			return cmd
		}
		return nil
	}

	if l.IsFilterTyping() {
		switch keyMsg.String() {
		case "esc":
			l.ClearFilter()
			return nil
		case "enter":
			// Accept filter, blur input to allow navigation
			l.filterInput.Blur()
			return nil
		case "backspace":
			if l.filterInput.Value() == "" {
				l.ClearFilter()
				return nil
			}
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return cmd
	}

	if l.filterActive {
		switch {
		case keyMsg.String() == "esc":
			l.ClearFilter()
			return nil
		case key.Matches(keyMsg, l.keys.Filter):
			l.filterInput.Focus()
			return nil
		}
	} else if key.Matches(keyMsg, l.keys.Filter) {
		l.ToggleFilter()
		return nil
	}

	count := l.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, l.keys.Down):
		if l.cursor < count-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, l.keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(keyMsg, l.keys.Home):
		l.cursor = 0
		l.offset = 0
	case key.Matches(keyMsg, l.keys.End):
		l.cursor = count - 1
	case key.Matches(keyMsg, l.keys.PageDown):
		l.cursor += max(l.maxVisible/2, 1)
		l.clampCursor()
	case key.Matches(keyMsg, l.keys.PageUp):
		l.cursor -= max(l.maxVisible/2, 1)
		l.clampCursor()
	}
	l.ensureVisible()
	return nil
}

// View renders the list with its border
func (l *MovieList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

func (l *MovieList) movieAt(i int) domain.Movie {
	if l.results != nil {
		return l.results[i].Movie
	}
	return l.movies[i]
}

func (l *MovieList) applyFilter() {
	query := l.filterInput.Value()
	l.filterQuery = query

	if query == "" {
		l.results = nil
	} else {
		l.results = l.index.Filter(query)
		if l.results == nil {
			l.results = []search.FilterResult{}
		}
	}

	// Reset cursor to first match
	l.cursor = 0
	l.offset = 0
}

func (l *MovieList) recalcMaxVisible() {
	// Reserve space for the title line and scroll indicators
	l.maxVisible = l.height - BorderHeight - ScrollIndicatorLines - 1
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *MovieList) clampCursor() {
	if l.cursor >= l.ItemCount() {
		l.cursor = l.ItemCount() - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *MovieList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

// Rendering

func (l *MovieList) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)

	titleLine := styles.AccentStyle.Render(styles.Truncate(fmt.Sprintf("%s (%d)", l.title, len(l.movies)), itemWidth))

	if l.loading {
		spinner := SpinnerFrames[l.spinnerFrame%len(SpinnerFrames)]
		return titleLine + "\n \n" + styles.DimStyle.Render(spinner+" Loading...") + "\n "
	}

	count := l.ItemCount()
	if count == 0 {
		emptyMsg := "No movies yet. Press a to add one."
		if l.filterActive && l.filterQuery != "" {
			emptyMsg = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(emptyMsg) + "\n "
		if l.filterActive {
			content += "\n" + l.renderFilterBar()
		}
		return content
	}

	end := min(l.offset+l.maxVisible, count)

	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		var matched []int
		if l.results != nil {
			matched = l.results[i].MatchedIndexes
		}
		lines = append(lines, renderMovieRow(l.movieAt(i), matched, i == l.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.renderFilterBar()
	}
	return content
}

func renderMovieRow(m domain.Movie, matched []int, selected bool, width int) string {
	ratingFg := styles.Amber
	rating := fmt.Sprintf("★ %.1f", m.Rating)

	year := ""
	if m.Year > 0 {
		year = fmt.Sprintf(" (%d)", m.Year)
	}

	// Available space: width - rating - space - margins(2)
	available := max(width-lipgloss.Width(rating)-1-2-len(year), 5)
	title := styles.Truncate(m.Title, available)

	parts := []styles.RowPart{
		{Text: rating, Foreground: &ratingFg},
		{Text: " "},
	}
	if len(matched) > 0 {
		parts = append(parts, styles.RowPart{Text: highlightMatches(title, matched, selected)})
	} else {
		parts = append(parts, styles.RowPart{Text: title})
	}
	parts = append(parts, styles.RowPart{Text: year})

	return styles.RenderListRow(parts, selected, width)
}

// highlightMatches renders matched character positions in the accent color
func highlightMatches(title string, matched []int, selected bool) string {
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	hl := styles.MatchHighlightStyle
	plain := lipgloss.NewStyle().Foreground(styles.LightGray)
	if selected {
		hl = styles.MatchHighlightSelectedStyle
		plain = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
	}

	var b strings.Builder
	for i, r := range []rune(title) {
		if set[i] {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteString(plain.Render(string(r)))
		}
	}
	return b.String()
}

func (l *MovieList) renderFilterBar() string {
	bar := l.filterInput.View()
	if l.filterQuery != "" {
		bar += styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", l.ItemCount(), len(l.movies)))
	}
	return bar
}
