package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Form field order
const (
	FieldTitle = iota
	FieldDirector
	FieldYear
	FieldRating
	FieldPoster
	FieldDescription
	fieldCount
)

var fieldNames = [fieldCount]string{"title", "director", "year", "rating", "poster", "description"}

var fieldLabels = [fieldCount]string{"Title", "Director", "Year", "Rating", "Poster URL", "Description"}

const formWidth = 44

// MovieForm is the add/edit modal
type MovieForm struct {
	visible bool
	editing *domain.Movie // nil when adding
	inputs  [fieldCount]textinput.Model
	focus   int
	errors  domain.ValidationError
}

// NewMovieForm creates a hidden form
func NewMovieForm() MovieForm {
	var f MovieForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = formWidth - 14
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		f.inputs[i] = ti
	}
	f.inputs[FieldTitle].CharLimit = domain.MaxTitleLength
	f.inputs[FieldYear].CharLimit = 4
	f.inputs[FieldYear].Placeholder = "2010"
	f.inputs[FieldRating].CharLimit = 4
	f.inputs[FieldRating].Placeholder = "0-10"
	f.inputs[FieldPoster].Placeholder = "https://..."
	f.inputs[FieldDescription].CharLimit = domain.MaxDescriptionLength
	return f
}

// ShowAdd opens an empty form
func (f *MovieForm) ShowAdd() {
	f.open(nil)
}

// ShowEdit opens the form populated from movie
func (f *MovieForm) ShowEdit(movie domain.Movie) {
	f.open(&movie)
}

func (f *MovieForm) open(movie *domain.Movie) {
	f.visible = true
	f.editing = movie
	f.errors = nil

	values := [fieldCount]string{}
	if movie != nil {
		values = [fieldCount]string{
			movie.Title,
			movie.Director,
			strconv.Itoa(movie.Year),
			strconv.FormatFloat(movie.Rating, 'f', -1, 64),
			movie.Poster,
			movie.Description,
		}
	}
	for i := range f.inputs {
		f.inputs[i].SetValue(values[i])
	}
	f.setFocus(FieldTitle)
}

// Hide dismisses the form
func (f *MovieForm) Hide() {
	f.visible = false
	f.editing = nil
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// IsVisible returns whether the form is shown
func (f MovieForm) IsVisible() bool {
	return f.visible
}

// Editing returns the movie being edited, if any
func (f MovieForm) Editing() (domain.Movie, bool) {
	if f.editing == nil {
		return domain.Movie{}, false
	}
	return *f.editing, true
}

// Errors returns the field errors from the last submit
func (f MovieForm) Errors() domain.ValidationError {
	return f.errors
}

// Focused returns the focused field index
func (f MovieForm) Focused() int {
	return f.focus
}

// SetValue sets a field's text
func (f *MovieForm) SetValue(field int, value string) {
	f.inputs[field].SetValue(value)
}

func (f *MovieForm) setFocus(field int) {
	f.focus = (field + fieldCount) % fieldCount
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// Input parses and validates the fields. Parse failures and form rule
// failures are reported together.
func (f MovieForm) Input(now time.Time) (domain.MovieInput, error) {
	errs := domain.ValidationError{}

	value := func(field int) string {
		return strings.TrimSpace(f.inputs[field].Value())
	}

	in := domain.MovieInput{
		Title:       value(FieldTitle),
		Director:    value(FieldDirector),
		Poster:      value(FieldPoster),
		Description: value(FieldDescription),
	}

	if year, err := strconv.Atoi(value(FieldYear)); err != nil {
		errs["year"] = "Year must be a whole number"
	} else {
		in.Year = year
	}

	if raw := value(FieldRating); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs["rating"] = "Rating must be a number"
		} else {
			in.Rating = rating
		}
	}

	if err := in.Validate(now); err != nil {
		if verr, ok := err.(domain.ValidationError); ok {
			for field, msg := range verr {
				if _, exists := errs[field]; !exists {
					errs[field] = msg
				}
			}
		}
	}

	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}

// Update handles input events, returns (form, cmd, submitted)
func (f MovieForm) Update(msg tea.Msg, now time.Time) (MovieForm, tea.Cmd, bool) {
	if !f.visible {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			f.Hide()
			return f, nil, false
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return f, nil, false
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return f, nil, false
		case "enter", "ctrl+s":
			if keyMsg.String() == "enter" && f.focus < fieldCount-1 {
				f.setFocus(f.focus + 1)
				return f, nil, false
			}
			if _, err := f.Input(now); err != nil {
				f.errors, _ = err.(domain.ValidationError)
				f.focusFirstError()
				return f, nil, false
			}
			f.errors = nil
			return f, nil, true
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *MovieForm) focusFirstError() {
	for i, name := range fieldNames {
		if _, ok := f.errors[name]; ok {
			f.setFocus(i)
			return
		}
	}
}

// View renders the form modal
func (f MovieForm) View() string {
	if !f.visible {
		return ""
	}

	title := "Add Movie"
	if f.editing != nil {
		title = "Edit Movie"
	}

	lines := []string{styles.ModalTitleStyle.Render(title)}
	for i := range f.inputs {
		label := styles.LabelStyle
		if i == f.focus {
			label = styles.FocusedLabelStyle
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			label.Render(fieldLabels[i]),
			f.inputs[i].View(),
		))
		if msg, ok := f.errors[fieldNames[i]]; ok {
			lines = append(lines, strings.Repeat(" ", 12)+styles.ErrorStyle.Render(msg))
		}
	}
	lines = append(lines, "", styles.DimStyle.Render("tab next • ctrl+s save • esc cancel"))

	return styles.ModalStyle.Width(formWidth).Render(strings.Join(lines, "\n"))
}
