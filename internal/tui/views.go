package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/components"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := components.SpinnerFrames
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}

// RenderConnection renders the backend connectivity badge
func RenderConnection(loading, connected bool) string {
	switch {
	case loading:
		return styles.DimBadgeStyle.Render("Connecting")
	case connected:
		return styles.BadgeStyle.Render("Connected")
	default:
		return styles.OfflineBadgeStyle.Render("Offline")
	}
}

// renderHeader renders the title bar with the connection badge on the right
func (m Model) renderHeader() string {
	left := styles.TitleStyle.Render("reel") + " " +
		styles.DimStyle.Render(pluralize(m.List.ItemCount(), "movie"))
	right := RenderConnection(m.loading, m.connected)

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner while loading, otherwise the status message
	var left string
	switch {
	case m.loading:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading movies...")
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	center := hint("a", "Add") + "  " + hint("e", "Edit") + "  " + hint("x", "Delete")
	right := hint("?", "help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      COLLECTION
  j/k        Up/down               a/n    Add movie
  g/Home     First item            e      Edit selected
  G/End      Last item             Enter  Edit selected
  PgUp/PgDn  Scroll page           x/d    Delete selected

SEARCH & VIEW                   OTHER
  /          Filter                q      Quit
  i          Toggle details        ?      This help
  [ / ]      Scroll details
  Esc        Clear filter

FORM
  Tab/↓      Next field            Ctrl+S Save
  Shift+Tab  Previous field        Esc    Cancel

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

func hint(k, desc string) string {
	return styles.HelpKeyStyle.Render(k) + styles.HelpDescStyle.Render(" "+desc)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
