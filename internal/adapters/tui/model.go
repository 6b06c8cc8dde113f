// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/arc-cli/internal/config"
	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/services"
)

// snapshotMsg carries a timer snapshot into the program.
type snapshotMsg domain.TimerSnapshot

// decisionMsg carries a permission decision into the program.
type decisionMsg domain.PermissionDecision

// promptMsg asks the permission screen to show a y/n question.
type promptMsg promptRequest

// requestDoneMsg is returned when a permission request finished.
type requestDoneMsg struct {
	decision domain.PermissionDecision
	err      error
}

// startRow is the focused row of the start screen.
type startRow int

const (
	rowTotal startRow = iota
	rowSession
)

// Model represents the TUI state. The screen shown is the top of the
// coordinator's navigation stack.
type Model struct {
	ctx   context.Context
	coord *services.Coordinator
	theme config.ThemeConfig
	st    styles

	spinner  spinner.Model
	session  progress.Model
	batch    progress.Model
	width    int
	height   int
	decision domain.PermissionDecision
	snapshot domain.TimerSnapshot
	pending  *promptRequest

	row           startRow
	totalCursor   int
	sessionCursor int

	lastOutcome domain.RunOutcome
	lastErr     error
	sweep       float64
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithSweepDegrees sets the angular range shown next to the timer rings.
func WithSweepDegrees(deg float64) ModelOption {
	return func(m *Model) {
		m.sweep = deg
	}
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, coord *services.Coordinator, theme *config.ThemeConfig, opts ...ModelOption) Model {
	resolved := resolveTheme(theme)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(resolved.ColorSession))

	m := Model{
		ctx:      ctx,
		coord:    coord,
		theme:    resolved,
		st:       newStyles(resolved),
		spinner:  sp,
		session:  newRingBar(resolved.ColorSession, resolved.SessionGradientEnd, resolved.ColorTrack),
		batch:    newRingBar(resolved.ColorBatch, resolved.BatchGradientEnd, resolved.ColorTrack),
		decision: coord.Gate.Decision(),
		snapshot: coord.Timer.Snapshot(),
		sweep:    domain.SweepDegrees,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.totalCursor = presetIndex(coord.Sessions.TotalPresets(), coord.Sessions.SelectedTotal())
	m.sessionCursor = presetIndex(coord.Sessions.SessionPresets(), coord.Sessions.SelectedSession())
	m.setWidth(getTerminalWidth())
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, resolveCmd(m.ctx, m.coord.Gate))
}

func resolveCmd(ctx context.Context, gate *services.PermissionGate) tea.Cmd {
	return func() tea.Msg {
		return decisionMsg(gate.Resolve(ctx))
	}
}

func requestCmd(ctx context.Context, gate *services.PermissionGate) tea.Cmd {
	return func() tea.Msg {
		d, err := gate.Request(ctx)
		return requestDoneMsg{decision: d, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.setWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case decisionMsg:
		return m.onDecision(domain.PermissionDecision(msg))

	case requestDoneMsg:
		m.lastErr = msg.err
		return m.onDecision(m.coord.Gate.Decision())

	case promptMsg:
		req := promptRequest(msg)
		m.pending = &req
		return m, nil

	case snapshotMsg:
		m.snapshot = domain.TimerSnapshot(msg)
		if m.snapshot.Final {
			m.lastOutcome = m.snapshot.Outcome
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) onDecision(d domain.PermissionDecision) (tea.Model, tea.Cmd) {
	prev := m.decision
	m.decision = d
	if d == domain.DecisionNotYetAsked && prev != domain.DecisionNotYetAsked && m.coord.Nav.Top() == domain.ScreenRequestPermission {
		return m, requestCmd(m.ctx, m.coord.Gate)
	}
	if d == domain.DecisionDenied && prev != domain.DecisionDenied {
		m.coord.OnPermissionDenied()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.pending != nil {
		return m.updatePrompt(msg)
	}

	switch m.coord.Nav.Top() {
	case domain.ScreenRequestPermission:
		return m.updatePermission(msg)
	case domain.ScreenStartService:
		return m.updateStart(msg)
	case domain.ScreenTimer:
		return m.updateTimer(msg)
	}
	return m, nil
}

// back pops the stack; at the root it leaves the program.
func (m Model) back() (tea.Model, tea.Cmd) {
	if !m.coord.Back() {
		return m, tea.Quit
	}
	m.lastOutcome = ""
	return m, nil
}

func (m *Model) answer(granted bool) {
	if m.pending == nil {
		return
	}
	m.pending.reply <- granted
	m.pending = nil
}

func (m *Model) setWidth(w int) {
	m.width = w
	barWidth := w - 16
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	m.session.Width = barWidth
	m.batch.Width = barWidth
}

// View renders the top screen.
func (m Model) View() string {
	var body string
	switch m.coord.Nav.Top() {
	case domain.ScreenRequestPermission:
		body = m.viewPermission()
	case domain.ScreenStartService:
		body = m.viewStart()
	case domain.ScreenTimer:
		body = m.viewTimer()
	}

	sections := []string{m.st.title.Render(m.coord.Nav.Top().Title())}
	if m.coord.Nav.Depth() > 1 {
		sections = append(sections, m.st.help.Render(breadcrumb(m.coord.Nav.Entries())))
	}
	sections = append(sections, body)
	if m.lastErr != nil {
		sections = append(sections, "", m.st.warning.Render("Error: "+m.lastErr.Error()))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(sections, "\n"))
}

func breadcrumb(entries []domain.Screen) string {
	titles := make([]string, len(entries))
	for i, s := range entries {
		titles[i] = s.Title()
	}
	return strings.Join(titles, " › ")
}

func presetIndex(presets []services.Preset, minutes int) int {
	for i, p := range presets {
		if p.Minutes == minutes {
			return i
		}
	}
	return 0
}
