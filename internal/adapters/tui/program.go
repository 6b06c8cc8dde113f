package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/arc-cli/internal/config"
	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/services"
)

// Run shows the full-screen interface and blocks until the user quits or ctx
// ends. Timer snapshots, permission decisions and prompt requests are
// forwarded into the program.
func Run(ctx context.Context, coord *services.Coordinator, prompter *Prompter, theme *config.ThemeConfig, opts ...ModelOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, coord, theme, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen())

	unsubscribe := coord.Timer.Subscribe(func(s domain.TimerSnapshot) {
		program.Send(snapshotMsg(s))
	})
	defer unsubscribe()

	coord.Gate.Subscribe(func(d domain.PermissionDecision) {
		if ctx.Err() == nil {
			program.Send(decisionMsg(d))
		}
	})

	var wg sync.WaitGroup

	if prompter != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case req := <-prompter.requests:
					program.Send(promptMsg(req))
				}
			}
		}()
	}

	// Handle context cancellation
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		program.Quit()
	}()

	_, err := program.Run()

	// Signal cancellation and wait for goroutines
	cancel()
	wg.Wait()

	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
