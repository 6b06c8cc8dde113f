package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/arc-cli/internal/config"
	"github.com/xvierd/arc-cli/internal/services"
)

// PickerResult holds the outcome of a picker interaction.
type PickerResult struct {
	Index   int
	Aborted bool
}

// hPickerModel is a one-line arrow-key picker over presets.
type hPickerModel struct {
	title   string
	items   []services.Preset
	cursor  int
	aborted bool
	theme   config.ThemeConfig
}

func (m hPickerModel) Init() tea.Cmd { return nil }

func (m hPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "1", "2", "3":
			idx := int(msg.String()[0] - '1')
			if idx < len(m.items) {
				m.cursor = idx
				return m, tea.Quit
			}
		case "enter":
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m hPickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorSelected)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString(titleStyle.Render("  "+m.title) + "  ")

	for i, item := range m.items {
		label := fmt.Sprintf("%d %s", i+1, item.Label)
		if i == m.cursor {
			b.WriteString(activeStyle.Render(" ▸ " + label + " "))
		} else {
			b.WriteString(dimStyle.Render("   " + label + " "))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ←/→ navigate · enter select · esc cancel") + "\n")

	return b.String()
}

// RunPresetPicker launches a compact horizontal picker over presets with
// selected preselected.
func RunPresetPicker(title string, presets []services.Preset, selected int, theme *config.ThemeConfig) PickerResult {
	m := hPickerModel{
		title:  title,
		items:  presets,
		cursor: selected,
		theme:  resolveTheme(theme),
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return PickerResult{Aborted: true}
	}

	final := result.(hPickerModel)
	if final.aborted {
		return PickerResult{Aborted: true}
	}
	return PickerResult{Index: final.cursor}
}

// PresetIndex returns the index of the preset with minutes, or 0.
func PresetIndex(presets []services.Preset, minutes int) int {
	return presetIndex(presets, minutes)
}
