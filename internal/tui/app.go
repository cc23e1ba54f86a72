package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/components"
)

// ApplicationState represents the current UI state
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateForm
	StateConfirmDelete
)

// Defaults for Options
const (
	DefaultTimeout       = 30 * time.Second
	DefaultToastDuration = 4 * time.Second
)

// Options configures the Model
type Options struct {
	// Notifications is drained into toasts; nil disables toasts
	Notifications <-chan domain.Notification
	// Timeout bounds every collection call
	Timeout time.Duration
	// ToastDuration is how long a toast stays visible
	ToastDuration time.Duration
	Logger        *slog.Logger
	// Now is used for form validation, defaults to time.Now
	Now func() time.Time
}

// Model is the main application model
type Model struct {
	// Application state
	State  ApplicationState
	Width  int
	Height int
	Ready  bool

	// Collection
	svc       Collection
	notes     <-chan domain.Notification
	loading   bool
	connected bool

	// Components
	List          *components.MovieList
	Inspector     components.Inspector
	Form          components.MovieForm
	Confirm       components.ConfirmDelete
	Toasts        components.Toasts
	ShowInspector bool

	// Loading/status
	SpinnerFrame int
	StatusMsg    string
	StatusIsErr  bool

	timeout  time.Duration
	toastTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewModel creates a new application model
func NewModel(svc Collection, opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = DefaultToastDuration
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	list := components.NewMovieList("Movies", components.DefaultListKeys())
	list.SetLoading(true)

	return Model{
		State:         StateBrowsing,
		svc:           svc,
		notes:         opts.Notifications,
		loading:       true,
		List:          list,
		Inspector:     components.NewInspector(),
		Form:          components.NewMovieForm(),
		ShowInspector: true,
		timeout:       opts.Timeout,
		toastTTL:      opts.ToastDuration,
		logger:        opts.Logger,
		now:           opts.Now,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		InitializeCmd(m.svc, m.timeout),
		TickCmd(),
	}
	if m.notes != nil {
		cmds = append(cmds, WaitForNotificationCmd(m.notes))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		if !m.loading {
			return m, nil
		}
		m.SpinnerFrame++
		m.List.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd()

	case InitializedMsg:
		m.loading = false
		m.connected = msg.Status.Connected
		m.List.SetLoading(false)
		m.refresh("")
		if msg.Status.Err != nil {
			m.logger.Warn("working offline", "source", msg.Status.Source, "error", msg.Status.Err)
			m.setStatus("Offline: showing "+msg.Status.Source+" movies", true)
		}
		return m, nil

	case MovieSavedMsg:
		m.refresh(msg.Movie.ID)
		m.clearStatus()
		return m, nil

	case MovieDeletedMsg:
		m.refresh("")
		m.clearStatus()
		return m, nil

	case ErrMsg:
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		m.setStatus(msg.Error(), true)
		return m, nil

	case NotificationMsg:
		id := m.Toasts.Push(msg.Notification)
		cmds := []tea.Cmd{ToastExpiryCmd(id, m.toastTTL)}
		if m.notes != nil {
			cmds = append(cmds, WaitForNotificationCmd(m.notes))
		}
		return m, tea.Batch(cmds...)

	case ToastExpiredMsg:
		m.Toasts.Dismiss(msg.ID)
		return m, nil
	}

	// Cursor blink and other input messages
	switch m.State {
	case StateForm:
		form, cmd, _ := m.Form.Update(msg, m.now())
		m.Form = form
		return m, cmd
	case StateBrowsing:
		return m, m.List.Update(msg)
	}
	return m, nil
}

// refresh reloads the list from the collection. A non-empty selectID moves
// the cursor to that movie.
func (m *Model) refresh(selectID string) {
	snap := m.svc.List()
	m.connected = snap.Connected
	m.List.SetMovies(snap.Movies)
	if selectID != "" {
		m.List.SelectID(selectID)
	}
	m.updateInspector()
}

// updateInspector shows the selected movie in the inspector
func (m *Model) updateInspector() {
	if movie, ok := m.List.SelectedMovie(); ok {
		m.Inspector.SetMovie(&movie)
		return
	}
	m.Inspector.SetMovie(nil)
}

// setState switches state; the list keeps focus only while browsing
func (m *Model) setState(state ApplicationState) {
	m.State = state
	m.List.SetFocused(state == StateBrowsing)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
}

func (m *Model) clearStatus() {
	m.StatusMsg = ""
	m.StatusIsErr = false
}

// Connected reports whether the collection reached the backend
func (m Model) Connected() bool {
	return m.connected
}

// Loading reports whether the initial load is still running
func (m Model) Loading() bool {
	return m.loading
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	layout := m.calculateLayout(m.Width)
	content := m.List.View()
	if layout.inspectorWidth > 0 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.Inspector.View())
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)

	// Overlay form if visible
	if m.Form.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Form.View())
	}

	// Overlay delete confirmation if visible
	if m.Confirm.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Confirm.View())
	}

	// Toasts stack under the view, right-aligned
	if m.Toasts.Len() > 0 {
		view = lipgloss.JoinVertical(lipgloss.Right, view, m.Toasts.View())
	}

	return view
}
