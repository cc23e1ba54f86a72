package tui

// Layout constants
const (
	// ChromeHeight is the header line plus the footer line
	ChromeHeight = 2

	// ListColumnPercent is the list share of the width when the inspector is shown
	ListColumnPercent = 55

	// MinColumnWidth keeps either pane readable on narrow terminals
	MinColumnWidth = 24
)

// paneLayout holds calculated pane widths for the View
type paneLayout struct {
	listWidth      int
	inspectorWidth int // 0 if not shown
}

// calculateLayout splits the width between the list and the inspector
func (m Model) calculateLayout(availableWidth int) paneLayout {
	if !m.ShowInspector || availableWidth < 2*MinColumnWidth {
		return paneLayout{listWidth: availableWidth}
	}

	listWidth := max(availableWidth*ListColumnPercent/100, MinColumnWidth)
	return paneLayout{
		listWidth:      listWidth,
		inspectorWidth: availableWidth - listWidth,
	}
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(m.Height-ChromeHeight, 0)
	layout := m.calculateLayout(m.Width)

	m.List.SetSize(layout.listWidth, contentHeight)
	if layout.inspectorWidth > 0 {
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)
	}
}
