package components

import (
	"fmt"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// ConfirmDelete asks before a movie is removed
type ConfirmDelete struct {
	visible bool
	movie   domain.Movie
}

// Show displays the prompt for movie
func (c *ConfirmDelete) Show(movie domain.Movie) {
	c.visible = true
	c.movie = movie
}

// Hide dismisses the prompt
func (c *ConfirmDelete) Hide() {
	c.visible = false
}

// IsVisible returns whether the prompt is shown
func (c ConfirmDelete) IsVisible() bool {
	return c.visible
}

// Movie returns the movie awaiting confirmation
func (c ConfirmDelete) Movie() domain.Movie {
	return c.movie
}

// View renders the prompt
func (c ConfirmDelete) View() string {
	if !c.visible {
		return ""
	}
	body := styles.ModalTitleStyle.Render("Delete movie?") + "\n" +
		styles.SubtitleStyle.Render(fmt.Sprintf("%q will be removed from your collection.", c.movie.Title)) + "\n\n" +
		styles.HelpKeyStyle.Render("y") + styles.HelpDescStyle.Render(" delete  ") +
		styles.HelpKeyStyle.Render("n/esc") + styles.HelpDescStyle.Render(" cancel")
	return styles.DestructiveModalStyle.Render(body)
}
