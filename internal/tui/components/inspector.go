package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Inspector displays the details of the selected movie
type Inspector struct {
	movie      *domain.Movie
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// SetMovie sets the movie to display; nil clears it
func (i *Inspector) SetMovie(movie *domain.Movie) {
	if i.movie == nil || movie == nil || i.movie.ID != movie.ID {
		i.offset = 0 // Reset scroll on selection change
	}
	i.movie = movie
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve space for border, scroll indicators, title and blank line
	i.maxVisible = max(height-InspectorBorderHeight-InspectorScrollIndicators-2, 1)
}

// HasMovie returns true if there is a movie to display
func (i Inspector) HasMovie() bool {
	return i.movie != nil
}

// ScrollDown scrolls the description by one line
func (i *Inspector) ScrollDown() {
	i.offset++
}

// ScrollUp scrolls the description back by one line
func (i *Inspector) ScrollUp() {
	if i.offset > 0 {
		i.offset--
	}
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder

	// Border takes 2 chars, leave 1 char safety margin
	contentWidth := max(i.width-3, 10)
	content := i.render(contentWidth)

	titleLine := styles.AccentStyle.Render(styles.Truncate("Details", contentWidth))

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(i.maxVisible-len(headerLines)-len(footerLines), 1)

	// Clamp body scroll offset
	maxOffset := max(len(bodyLines)-availableForBody, 0)
	offset := min(i.offset, maxOffset)
	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if content.header != "" {
		parts = append(parts, strings.Join(headerLines, "\n"))
	}
	parts = append(parts, up)
	if len(visibleBody) > 0 {
		parts = append(parts, strings.Join(visibleBody, "\n"))
	}
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if content.footer != "" {
		parts = append(parts, strings.Join(footerLines, "\n"))
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) render(width int) inspectorContent {
	if i.movie == nil {
		return inspectorContent{body: styles.DimStyle.Render("No movie selected")}
	}
	m := *i.movie
	return inspectorContent{
		header: renderMovieHeader(m, width),
		body:   renderMovieBody(m, width),
		footer: renderMovieFooter(m, width),
	}
}

func renderMovieHeader(m domain.Movie, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(wordWrap(m.Title, width)))
	b.WriteString("\n")

	var meta []string
	if m.Year > 0 {
		meta = append(meta, fmt.Sprintf("%d", m.Year))
	}
	if m.Director != "" {
		meta = append(meta, m.Director)
	}
	if len(meta) > 0 {
		b.WriteString(styles.SubtitleStyle.Render(styles.Truncate(strings.Join(meta, " • "), width)))
		b.WriteString("\n")
	}

	b.WriteString(styles.AccentStyle.Render("★ " + m.FormattedRating()))
	return b.String()
}

func renderMovieBody(m domain.Movie, width int) string {
	if strings.TrimSpace(m.Description) == "" {
		return styles.DimStyle.Render("No description")
	}
	return wordWrap(m.Description, width)
}

func renderMovieFooter(m domain.Movie, width int) string {
	var lines []string

	if m.HasPoster() {
		lines = append(lines, styles.DimStyle.Render("Poster ")+styles.SubtitleStyle.Render(styles.Truncate(m.Poster, width-7)))
	} else {
		lines = append(lines, styles.DimStyle.Render("Poster ")+styles.DimBadgeStyle.Render("no image"))
	}
	if !m.CreatedAt.IsZero() {
		lines = append(lines, styles.DimStyle.Render("Added  "+m.CreatedAt.Local().Format("Jan 2, 2006")))
	}
	lines = append(lines, styles.DimStyle.Render(styles.Truncate("ID     "+m.ID, width)))

	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := len([]rune(word))

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
