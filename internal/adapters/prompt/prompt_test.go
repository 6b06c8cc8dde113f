package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/xvierd/arc-cli/internal/domain"
)

func TestPrompter_Request(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"  Y \n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := NewWithIO(strings.NewReader(tt.input), &out, true)

			got, err := p.Request(context.Background(), domain.PermissionPostNotifications)
			if err != nil {
				t.Fatalf("Request() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Request(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "[y/N]") {
				t.Errorf("prompt = %q, want [y/N]", out.String())
			}
		})
	}
}

func TestPrompter_RequestCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	p := NewWithIO(r, io.Discard, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Request(ctx, domain.PermissionPostNotifications); err == nil {
		t.Error("Request() with cancelled context should fail")
	}
}

func TestPrompter_Supported(t *testing.T) {
	if !NewWithIO(strings.NewReader(""), io.Discard, true).Supported() {
		t.Error("enabled interactive prompter should be supported")
	}
	if NewWithIO(strings.NewReader(""), io.Discard, false).Supported() {
		t.Error("disabled prompter should not be supported")
	}
}

func TestPrompter_RequestUnsupported(t *testing.T) {
	p := NewWithIO(strings.NewReader("y\n"), io.Discard, false)
	if _, err := p.Request(context.Background(), domain.PermissionPostNotifications); !errors.Is(err, domain.ErrPermissionUnavailable) {
		t.Errorf("Request() error = %v, want ErrPermissionUnavailable", err)
	}
}

func TestPrompter_RequestKeepsBufferedAnswers(t *testing.T) {
	p := NewWithIO(strings.NewReader("y\nn\n"), io.Discard, true)

	first, err := p.Request(context.Background(), domain.PermissionPostNotifications)
	if err != nil || !first {
		t.Fatalf("first Request() = %v, %v; want true, nil", first, err)
	}
	second, err := p.Request(context.Background(), domain.PermissionPostNotifications)
	if err != nil || second {
		t.Fatalf("second Request() = %v, %v; want false, nil", second, err)
	}
	third, err := p.Request(context.Background(), domain.PermissionPostNotifications)
	if err != nil || third {
		t.Errorf("Request() after input ended = %v, %v; want false, nil", third, err)
	}
}

func TestPrompter_AnswerAfterCancelReachesNextRequest(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := NewWithIO(r, io.Discard, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Request(ctx, domain.PermissionPostNotifications); err == nil {
		t.Fatal("Request() with cancelled context should fail")
	}

	go func() { _, _ = io.WriteString(w, "yes\n") }()
	granted, err := p.Request(context.Background(), domain.PermissionPostNotifications)
	if err != nil || !granted {
		t.Errorf("Request() = %v, %v; want true, nil", granted, err)
	}
}
