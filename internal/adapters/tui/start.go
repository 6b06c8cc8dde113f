package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/arc-cli/internal/services"
)

func (m Model) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m.back()
	case "up", "k", "down", "j", "tab":
		if m.row == rowTotal {
			m.row = rowSession
		} else {
			m.row = rowTotal
		}
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "enter", "s":
		if err := m.coord.OnStartService(); err != nil {
			m.lastErr = err
			return m, nil
		}
		m.lastErr = nil
		m.lastOutcome = ""
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	sessions := m.coord.Sessions
	if m.row == rowTotal {
		presets := sessions.TotalPresets()
		m.totalCursor = clamp(m.totalCursor+delta, 0, len(presets)-1)
		m.lastErr = sessions.SelectTotal(presets[m.totalCursor].Minutes)
		return
	}
	presets := sessions.SessionPresets()
	m.sessionCursor = clamp(m.sessionCursor+delta, 0, len(presets)-1)
	m.lastErr = sessions.SelectSession(presets[m.sessionCursor].Minutes)
}

func (m Model) viewStart() string {
	var b strings.Builder

	b.WriteString(m.rowLabel(rowTotal, "Total time") + "\n")
	b.WriteString(m.chips(m.coord.Sessions.TotalPresets(), m.totalCursor) + "\n\n")
	b.WriteString(m.rowLabel(rowSession, "Session length") + "\n")
	b.WriteString(m.chips(m.coord.Sessions.SessionPresets(), m.sessionCursor) + "\n\n")
	b.WriteString(m.st.help.Render("↑/↓ row · ←/→ choose · enter start · q quit"))
	return b.String()
}

func (m Model) rowLabel(row startRow, label string) string {
	if m.row == row {
		return m.st.heading.Render("▸ " + label)
	}
	return m.st.help.Render("  " + label)
}

func (m Model) chips(presets []services.Preset, cursor int) string {
	parts := make([]string, len(presets))
	for i, p := range presets {
		if i == cursor {
			parts[i] = m.st.selected.Render(p.Label)
		} else {
			parts[i] = m.st.chip.Render(p.Label)
		}
	}
	return "  " + strings.Join(parts, " ")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
