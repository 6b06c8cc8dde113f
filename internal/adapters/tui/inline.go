package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/arc-cli/internal/config"
	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/services"
)

// inlineStartFailedMsg is sent when the engine refused to start.
type inlineStartFailedMsg struct{}

// InlineModel is a compact timer drawn below the shell prompt.
type InlineModel struct {
	cfg      domain.SessionConfig
	snapshot domain.TimerSnapshot
	session  progress.Model
	batch    progress.Model
	st       styles
	start    func() bool
	stop     func()
	final    *domain.TimerSnapshot
}

// NewInlineModel creates an inline model for a run of cfg. start is called
// once the program is running; stop is called when the user ends the run early.
func NewInlineModel(cfg domain.SessionConfig, start func() bool, stop func(), theme *config.ThemeConfig) InlineModel {
	resolved := resolveTheme(theme)
	w := getTerminalWidth()

	session := newRingBar(resolved.ColorSession, resolved.SessionGradientEnd, resolved.ColorTrack)
	batch := newRingBar(resolved.ColorBatch, resolved.BatchGradientEnd, resolved.ColorTrack)
	session.Width = (w - 24) / 2
	batch.Width = (w - 24) / 2

	return InlineModel{
		cfg:     cfg,
		session: session,
		batch:   batch,
		st:      newStyles(resolved),
		start:   start,
		stop:    stop,
	}
}

// Init starts the run.
func (m InlineModel) Init() tea.Cmd {
	if m.start == nil {
		return nil
	}
	start := m.start
	return func() tea.Msg {
		if !start() {
			return inlineStartFailedMsg{}
		}
		return nil
	}
}

// Update handles messages and updates the model.
func (m InlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inlineStartFailedMsg:
		return m, tea.Quit
	case snapshotMsg:
		snap := domain.TimerSnapshot(msg)
		if snap.Final {
			m.final = &snap
			return m, tea.Quit
		}
		m.snapshot = snap
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c", "x":
			if m.stop != nil {
				m.stop()
			}
		}
	}
	return m, nil
}

// View renders the inline timer.
func (m InlineModel) View() string {
	if m.final != nil {
		return ""
	}
	snap := m.snapshot
	line := fmt.Sprintf("%s  %s %s  %s",
		m.st.clock.Render(domain.FormatElapsed(snap.State.ElapsedSeconds)),
		m.session.ViewAs(snap.SessionFraction),
		m.batch.ViewAs(snap.BatchFraction),
		m.st.help.Render(sessionLine(snap)),
	)
	return strings.Join([]string{line, m.st.help.Render("  q stop")}, "\n") + "\n"
}

// Final returns the snapshot that ended the run, if any.
func (m InlineModel) Final() (domain.TimerSnapshot, bool) {
	if m.final == nil {
		return domain.TimerSnapshot{}, false
	}
	return *m.final, true
}

// RunInline starts engine with cfg and draws it inline until the run ends.
// It returns the final snapshot.
func RunInline(ctx context.Context, engine *services.TimerEngine, cfg domain.SessionConfig, theme *config.ThemeConfig) (domain.TimerSnapshot, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := cfg.Validate(); err != nil {
		return domain.TimerSnapshot{}, err
	}

	start := func() bool { return engine.Start(ctx, cfg) }
	model := NewInlineModel(cfg, start, engine.Cancel, theme)
	program := tea.NewProgram(model)

	unsubscribe := engine.Subscribe(func(s domain.TimerSnapshot) {
		program.Send(snapshotMsg(s))
	})
	defer unsubscribe()

	result, err := program.Run()
	engine.Cancel()
	engine.Wait()
	if err != nil {
		return domain.TimerSnapshot{}, fmt.Errorf("failed to run inline timer: %w", err)
	}

	final, ok := result.(InlineModel).Final()
	if !ok {
		return domain.TimerSnapshot{}, errors.New("timer is already running")
	}
	return final, nil
}
