package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, even inside the form
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.setState(StateBrowsing)
		return m, nil

	case StateConfirmDelete:
		switch {
		case key.Matches(msg, Keys.Confirm):
			movie := m.Confirm.Movie()
			m.Confirm.Hide()
			m.setState(StateBrowsing)
			m.setStatus("Deleting "+movie.Title+"...", false)
			return m, DeleteMovieCmd(m.svc, movie.ID, m.timeout)
		case key.Matches(msg, Keys.Deny):
			m.Confirm.Hide()
			m.setState(StateBrowsing)
		}
		return m, nil

	case StateForm:
		return m.handleFormKey(msg)
	}

	// While the filter input has focus every key belongs to it
	if m.List.IsFilterTyping() {
		cmd := m.List.Update(msg)
		m.updateInspector()
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.setState(StateHelp)
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.List.IsFiltering() {
			m.List.ClearFilter()
			m.updateInspector()
		}
		m.clearStatus()
		return m, nil

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.DetailsDown):
		m.Inspector.ScrollDown()
		return m, nil

	case key.Matches(msg, Keys.DetailsUp):
		m.Inspector.ScrollUp()
		return m, nil

	case key.Matches(msg, Keys.Add):
		if m.loading {
			return m, nil
		}
		m.Form.ShowAdd()
		m.setState(StateForm)
		return m, nil

	case key.Matches(msg, Keys.Edit):
		if movie, ok := m.List.SelectedMovie(); ok && !m.loading {
			m.Form.ShowEdit(movie)
			m.setState(StateForm)
		}
		return m, nil

	case key.Matches(msg, Keys.Delete):
		if movie, ok := m.List.SelectedMovie(); ok && !m.loading {
			m.Confirm.Show(movie)
			m.setState(StateConfirmDelete)
		}
		return m, nil
	}

	// Everything else is list navigation
	cmd := m.List.Update(msg)
	m.updateInspector()
	return m, cmd
}

// handleFormKey routes keys to the add/edit form and dispatches the save
// when it is submitted
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, cmd, submitted := m.Form.Update(msg, m.now())
	m.Form = form

	if !m.Form.IsVisible() {
		m.setState(StateBrowsing)
		return m, cmd
	}
	if !submitted {
		return m, cmd
	}

	in, err := m.Form.Input(m.now())
	if err != nil {
		return m, cmd
	}

	editing, isEdit := m.Form.Editing()
	m.Form.Hide()
	m.setState(StateBrowsing)

	if isEdit {
		movie := in.WithID(editing.ID)
		movie.CreatedAt = editing.CreatedAt
		m.setStatus("Saving "+movie.Title+"...", false)
		return m, tea.Batch(cmd, UpdateMovieCmd(m.svc, movie, m.timeout))
	}

	m.setStatus("Adding "+in.Title+"...", false)
	return m, tea.Batch(cmd, AddMovieCmd(m.svc, in, m.timeout))
}
