package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/xvierd/arc-cli/internal/domain"
)

// Preset is one choice offered on the start screen.
type Preset struct {
	Label   string
	Minutes int
}

var totalPresets = []Preset{
	{Label: "60 Min", Minutes: 60},
	{Label: "90 Min", Minutes: 90},
	{Label: "Until I stop", Minutes: domain.Unbounded},
}

var sessionPresets = []Preset{
	{Label: "10 Min", Minutes: 10},
	{Label: "15 Min", Minutes: 15},
}

// SessionService owns the session configuration edited on the start screen.
type SessionService struct {
	mu             sync.Mutex
	totalMinutes   int
	sessionMinutes int
}

// NewSessionService creates a service preselected with defaults.
func NewSessionService(defaults domain.SessionConfig) *SessionService {
	s := &SessionService{totalMinutes: 60, sessionMinutes: 10}
	if defaults.Validate() == nil {
		s.sessionMinutes = defaults.SessionLengthSeconds / 60
		if defaults.IsBounded() {
			s.totalMinutes = defaults.TotalDurationSeconds / 60
		} else {
			s.totalMinutes = domain.Unbounded
		}
	}
	return s
}

// TotalPresets returns the total duration choices.
func (s *SessionService) TotalPresets() []Preset {
	return append([]Preset(nil), totalPresets...)
}

// SessionPresets returns the session length choices.
func (s *SessionService) SessionPresets() []Preset {
	return append([]Preset(nil), sessionPresets...)
}

// SelectTotal sets the total in minutes, or domain.Unbounded.
func (s *SessionService) SelectTotal(minutes int) error {
	if minutes != domain.Unbounded && minutes <= 0 {
		return fmt.Errorf("%w: total must be positive or unbounded, got %d", domain.ErrInvalidSessionConfig, minutes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalMinutes = minutes
	return nil
}

// SelectSession sets the session length in minutes.
func (s *SessionService) SelectSession(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: session length must be positive, got %d", domain.ErrInvalidSessionConfig, minutes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionMinutes = minutes
	return nil
}

// SelectedTotal returns the selected total in minutes.
func (s *SessionService) SelectedTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalMinutes
}

// SelectedSession returns the selected session length in minutes.
func (s *SessionService) SelectedSession() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionMinutes
}

// Config returns the selection as a session config.
func (s *SessionService) Config() (domain.SessionConfig, error) {
	s.mu.Lock()
	session, total := s.sessionMinutes, s.totalMinutes
	s.mu.Unlock()
	return domain.NewSessionConfig(session, total)
}

// MatchTotal finds the total preset whose label best matches query.
func (s *SessionService) MatchTotal(query string) (Preset, bool) {
	return matchPreset(query, totalPresets)
}

// MatchSession finds the session preset whose label best matches query.
func (s *SessionService) MatchSession(query string) (Preset, bool) {
	return matchPreset(query, sessionPresets)
}

func matchPreset(query string, presets []Preset) (Preset, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Preset{}, false
	}

	labels := make([]string, len(presets))
	for i, p := range presets {
		labels[i] = strings.ToLower(p.Label)
	}

	matches := fuzzy.Find(query, labels)
	if len(matches) == 0 {
		return Preset{}, false
	}
	return presets[matches[0].Index], true
}
