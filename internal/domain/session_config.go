// Package domain contains the core entities for arc: the session configuration,
// timer state, permission decision and navigation screens. These types carry no
// dependencies on storage, terminals or the operating system.
package domain

import (
	"errors"
	"fmt"
	"math"
)

// Common domain errors.
var (
	ErrInvalidSessionConfig  = errors.New("invalid session configuration")
	ErrRunNotFound           = errors.New("timer run not found")
	ErrPermissionUnavailable = errors.New("permission prompt unavailable")
)

// Unbounded marks a total duration that runs until the user stops it.
const Unbounded = -1

// SessionConfig describes one countdown: the repeating session length and the
// overall bound. It is copied by value into the timer when a run starts.
type SessionConfig struct {
	SessionLengthSeconds int
	TotalDurationSeconds int
}

// DefaultSessionConfig returns 10 minute sessions bounded at one hour.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SessionLengthSeconds: 10 * 60,
		TotalDurationSeconds: 60 * 60,
	}
}

// NewSessionConfig builds a config from minute values as offered by the start
// screen. A totalMinutes of Unbounded means "until I stop".
func NewSessionConfig(sessionMinutes, totalMinutes int) (SessionConfig, error) {
	cfg := SessionConfig{SessionLengthSeconds: sessionMinutes * 60}
	if totalMinutes == Unbounded {
		cfg.TotalDurationSeconds = Unbounded
	} else {
		cfg.TotalDurationSeconds = totalMinutes * 60
	}
	if err := cfg.Validate(); err != nil {
		return SessionConfig{}, err
	}
	return cfg, nil
}

// Validate checks the config can drive the progress math.
func (c SessionConfig) Validate() error {
	if c.SessionLengthSeconds <= 0 {
		return fmt.Errorf("%w: session length must be positive, got %ds", ErrInvalidSessionConfig, c.SessionLengthSeconds)
	}
	if c.TotalDurationSeconds != Unbounded && c.TotalDurationSeconds <= 0 {
		return fmt.Errorf("%w: total duration must be positive or unbounded, got %ds", ErrInvalidSessionConfig, c.TotalDurationSeconds)
	}
	return nil
}

// IsBounded reports whether the run stops on its own.
func (c SessionConfig) IsBounded() bool {
	return c.TotalDurationSeconds != Unbounded
}

// SessionCount returns how many sessions fit in the total.
func (c SessionConfig) SessionCount() int {
	if !c.IsBounded() {
		return math.MaxInt
	}
	if c.SessionLengthSeconds <= 0 {
		return 0
	}
	return c.TotalDurationSeconds / c.SessionLengthSeconds
}

// TotalLabel returns a human-readable label for the total bound.
func (c SessionConfig) TotalLabel() string {
	if !c.IsBounded() {
		return "Until I stop"
	}
	return fmt.Sprintf("%d Min", c.TotalDurationSeconds/60)
}

// SessionLabel returns a human-readable label for the session length.
func (c SessionConfig) SessionLabel() string {
	return fmt.Sprintf("%d Min", c.SessionLengthSeconds/60)
}
