package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hashicorp/go-hclog"

	"github.com/xvierd/arc-cli/internal/adapters/git"
	"github.com/xvierd/arc-cli/internal/adapters/notification"
	"github.com/xvierd/arc-cli/internal/adapters/storage"
	"github.com/xvierd/arc-cli/internal/config"
	"github.com/xvierd/arc-cli/internal/logging"
	"github.com/xvierd/arc-cli/internal/ports"
	"github.com/xvierd/arc-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config    *config.Config
	logger    hclog.Logger
	logCloser io.Closer
	storage   ports.Storage
	notifier  *notification.Notifier
	state     *services.StateService
	sessions  *services.SessionService
	engine    *services.TimerEngine
	detach    func()
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	// Load configuration
	var err error
	if configPath != "" {
		app.config, err = config.LoadFrom(configPath)
	} else {
		app.config, err = config.Load()
	}
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	app.logger, app.logCloser, err = logging.Open(app.config.Log, config.GetLogPath(app.config))
	if err != nil {
		app.logger = hclog.NewNullLogger()
	}

	// Initialize notifier
	app.notifier = notification.New(&app.config.Notifications)

	// Determine database path
	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Initialize storage
	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.wire()
	return nil
}

// wire builds the services on top of the already opened storage.
func (a *appDeps) wire() {
	a.state = services.NewStateService(a.storage, a.logger.Named("state"))
	if cwd, err := os.Getwd(); err == nil {
		a.state.SetGitDetector(git.NewDetector(), cwd)
	}

	defaults, err := a.config.ToSessionConfig()
	if err != nil {
		a.logger.Warn("invalid timer defaults in config, using built-in presets", "error", err)
	}
	a.sessions = services.NewSessionService(defaults)

	a.engine = services.NewTimerEngine(
		services.WithTickInterval(a.config.TickInterval()),
		services.WithTimerLogger(a.logger.Named("timer")),
	)
	a.detach = a.state.Attach(a.engine)
}

// newGate builds a permission gate asking through prompter.
func (a *appDeps) newGate(prompter ports.PermissionPrompter) *services.PermissionGate {
	return services.NewPermissionGate(
		a.storage.Preferences(),
		prompter,
		services.WithLoadDelay(a.config.LoadDelay()),
		services.WithGateLogger(a.logger.Named("permission")),
	)
}

// newCoordinator builds the screen flow for one interactive session.
func (a *appDeps) newCoordinator(prompter ports.PermissionPrompter) *services.Coordinator {
	nav := services.NewNavigationController(services.InitialScreen())
	return services.NewCoordinator(nav, a.newGate(prompter), a.sessions, a.engine, a.notifier, a.logger.Named("coordinator"))
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.detach != nil {
		app.detach()
		app.detach = nil
	}
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
	if app.storage != nil {
		return app.storage.Close()
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
