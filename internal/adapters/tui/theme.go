package tui

import (
	"os"
	"reflect"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/xvierd/arc-cli/internal/config"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

type styles struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	selected lipgloss.Style
	chip     lipgloss.Style
	help     lipgloss.Style
	warning  lipgloss.Style
	clock    lipgloss.Style
	session  lipgloss.Style
	batch    lipgloss.Style
}

func newStyles(theme config.ThemeConfig) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle)).MarginBottom(1),
		heading:  lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(theme.ColorSelected)).Padding(0, 1),
		chip:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp)).Padding(0, 1),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp)),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorWarning)),
		clock:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorSession)),
		session:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorSession)),
		batch:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorBatch)),
	}
}

// newRingBar draws one timer ring as a gradient bar over the track color.
func newRingBar(from, to, track string) progress.Model {
	bar := progress.New(progress.WithGradient(from, to), progress.WithoutPercentage())
	if track != "" {
		bar.EmptyColor = track
	}
	return bar
}

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}
