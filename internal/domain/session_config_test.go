package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNewSessionConfig(t *testing.T) {
	tests := []struct {
		name         string
		session      int
		total        int
		wantSession  int
		wantTotal    int
		wantSessions int
		wantErr      bool
	}{
		{"ten of sixty", 10, 60, 600, 3600, 6, false},
		{"fifteen of ninety", 15, 90, 900, 5400, 6, false},
		{"fifteen of sixty", 15, 60, 900, 3600, 4, false},
		{"until stopped", 10, Unbounded, 600, Unbounded, math.MaxInt, false},
		{"zero session", 0, 60, 0, 0, 0, true},
		{"zero total", 10, 0, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewSessionConfig(tt.session, tt.total)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSessionConfig) {
					t.Fatalf("NewSessionConfig() error = %v, want ErrInvalidSessionConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSessionConfig() unexpected error = %v", err)
			}
			if cfg.SessionLengthSeconds != tt.wantSession {
				t.Errorf("SessionLengthSeconds = %d, want %d", cfg.SessionLengthSeconds, tt.wantSession)
			}
			if cfg.TotalDurationSeconds != tt.wantTotal {
				t.Errorf("TotalDurationSeconds = %d, want %d", cfg.TotalDurationSeconds, tt.wantTotal)
			}
			if cfg.SessionCount() != tt.wantSessions {
				t.Errorf("SessionCount() = %d, want %d", cfg.SessionCount(), tt.wantSessions)
			}
		})
	}
}

func TestSessionConfig_Labels(t *testing.T) {
	cfg := DefaultSessionConfig()
	if cfg.TotalLabel() != "60 Min" {
		t.Errorf("TotalLabel() = %q, want %q", cfg.TotalLabel(), "60 Min")
	}
	if cfg.SessionLabel() != "10 Min" {
		t.Errorf("SessionLabel() = %q, want %q", cfg.SessionLabel(), "10 Min")
	}

	cfg.TotalDurationSeconds = Unbounded
	if cfg.TotalLabel() != "Until I stop" {
		t.Errorf("TotalLabel() = %q, want %q", cfg.TotalLabel(), "Until I stop")
	}
}
