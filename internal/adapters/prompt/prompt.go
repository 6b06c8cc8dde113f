// Package prompt asks for runtime permissions on a plain terminal.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/term"

	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/ports"
)

// Prompter asks a [y/N] question on the terminal. One reader goroutine owns
// the input for the prompter's lifetime, so a line typed after a cancelled
// request answers the next one.
type Prompter struct {
	in          io.Reader
	out         io.Writer
	enabled     bool
	interactive bool

	readOnce sync.Once
	lines    chan string
	readErr  error
}

// Ensure Prompter implements ports.PermissionPrompter.
var _ ports.PermissionPrompter = (*Prompter)(nil)

// New creates a prompter on stdin and stdout. It is only supported when
// enabled and stdin is a terminal.
func New(enabled bool) *Prompter {
	return &Prompter{
		in:          os.Stdin,
		out:         os.Stdout,
		enabled:     enabled,
		interactive: term.IsTerminal(os.Stdin.Fd()),
	}
}

// NewWithIO creates a prompter on the given streams, treated as interactive.
func NewWithIO(in io.Reader, out io.Writer, enabled bool) *Prompter {
	return &Prompter{in: in, out: out, enabled: enabled, interactive: true}
}

// Supported implements ports.PermissionPrompter.
func (p *Prompter) Supported() bool {
	return p.enabled && p.interactive
}

// Request implements ports.PermissionPrompter. Anything but y or yes is a denial.
func (p *Prompter) Request(ctx context.Context, permission string) (bool, error) {
	if !p.Supported() {
		return false, domain.ErrPermissionUnavailable
	}
	fmt.Fprintf(p.out, "arc would like to send you notifications (%s). Allow? [y/N] ", permission)

	p.readOnce.Do(p.startReader)

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			if p.readErr != nil && p.readErr != io.EOF {
				return false, fmt.Errorf("failed to read answer: %w", p.readErr)
			}
			return false, nil
		}
		reply := strings.TrimSpace(strings.ToLower(line))
		return reply == "y" || reply == "yes", nil
	}
}

// startReader feeds input lines to requests until the input ends. readErr is
// written before lines is closed.
func (p *Prompter) startReader() {
	p.lines = make(chan string)
	go func() {
		defer close(p.lines)
		r := bufio.NewReader(p.in)
		for {
			line, err := r.ReadString('\n')
			if line != "" {
				p.lines <- line
			}
			if err != nil {
				p.readErr = err
				return
			}
		}
	}()
}
