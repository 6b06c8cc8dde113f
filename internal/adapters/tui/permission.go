package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/arc-cli/internal/domain"
)

const rationale = "Notifications Required"

const rationaleBody = `arc needs permission to post notifications so it can
tell you when a session ends. You declined earlier.`

func (m Model) updatePermission(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m.back()
	case "enter", "a":
		if m.decision == domain.DecisionNotYetAsked {
			return m, requestCmd(m.ctx, m.coord.Gate)
		}
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.answer(true)
	case "n", "N", "esc":
		m.answer(false)
	}
	return m, nil
}

func (m Model) viewPermission() string {
	var b strings.Builder

	if m.pending != nil {
		b.WriteString(m.st.heading.Render("Allow arc to send notifications?") + "\n\n")
		b.WriteString(m.st.help.Render("[y] allow  [n] don't allow"))
		return b.String()
	}

	switch m.decision.View() {
	case domain.GateLoading:
		b.WriteString(fmt.Sprintf("%s Checking notification permission...", m.spinner.View()))
	case domain.GateDeclined:
		b.WriteString(m.st.warning.Render(rationale) + "\n\n")
		b.WriteString(rationaleBody + "\n\n")
		b.WriteString(m.st.help.Render("Go to Settings: run `arc permission reset`, then start arc again.") + "\n\n")
		b.WriteString(m.st.help.Render("[q] quit"))
	case domain.GateAskAgain:
		b.WriteString("arc would like to send you notifications.\n\n")
		b.WriteString(m.st.help.Render("[enter] ask  [q] quit"))
	case domain.GateGranted:
		b.WriteString("Notifications allowed.")
	}
	return b.String()
}
