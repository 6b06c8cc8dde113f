package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/services"
)

func (m Model) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m.back()
	case "s", " ", "enter":
		if !m.snapshot.State.IsRunning {
			m.lastOutcome = ""
			return m, startTimerCmd(m.ctx, m.coord)
		}
	case "x":
		m.coord.Timer.Cancel()
	}
	return m, nil
}

// startTimerCmd starts the engine off the update loop; the engine publishes
// its first snapshot synchronously.
func startTimerCmd(ctx context.Context, coord *services.Coordinator) tea.Cmd {
	return func() tea.Msg {
		coord.StartTimer(ctx)
		return nil
	}
}

func (m Model) viewTimer() string {
	snap := m.snapshot
	cfg := m.coord.ActiveConfig()
	if snap.State.IsRunning {
		cfg = snap.Config
	}

	var b strings.Builder
	b.WriteString(m.st.help.Render(fmt.Sprintf("%s sessions · %s total", cfg.SessionLabel(), cfg.TotalLabel())) + "\n\n")
	b.WriteString(m.st.clock.Render(snap.Elapsed()) + "\n\n")

	b.WriteString(m.st.session.Render("session ") + m.session.ViewAs(snap.SessionFraction) +
		m.st.help.Render(fmt.Sprintf(" %3.0f°", snap.SessionSweep(m.sweep))) + "\n")
	b.WriteString(m.st.batch.Render("total   ") + m.batch.ViewAs(snap.BatchFraction) +
		m.st.help.Render(fmt.Sprintf(" %3.0f°", snap.BatchSweep(m.sweep))) + "\n\n")

	if snap.State.IsRunning {
		b.WriteString(sessionLine(snap) + "\n\n")
		b.WriteString(m.st.help.Render("[x] stop · esc back"))
		return b.String()
	}

	switch m.lastOutcome {
	case domain.OutcomeCompleted:
		b.WriteString(m.st.heading.Render("Done.") + "\n\n")
	case domain.OutcomeCancelled:
		b.WriteString(m.st.help.Render("Stopped.") + "\n\n")
	}
	b.WriteString(m.st.help.Render("[s] start · esc back"))
	return b.String()
}

func sessionLine(snap domain.TimerSnapshot) string {
	current := snap.CompletedSessions + 1
	if !snap.Config.IsBounded() {
		return fmt.Sprintf("Session %d", current)
	}
	total := snap.Config.SessionCount()
	if current > total {
		current = total
	}
	return fmt.Sprintf("Session %d of %d", current, total)
}
