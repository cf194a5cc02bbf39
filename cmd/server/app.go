package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/marchukov/upkeep-api/internal/config"
	"github.com/marchukov/upkeep-api/internal/events"
	"github.com/marchukov/upkeep-api/internal/platform/postgres"
	"github.com/marchukov/upkeep-api/internal/service"
	"github.com/marchukov/upkeep-api/internal/store"
	"github.com/marchukov/upkeep-api/internal/task"
)

// stuckTaskAge is how long a background task may sit in processing state
// before the monitor resets it to pending.
const stuckTaskAge = 30 * time.Minute

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	machineStore   store.MachineStore
	planStore      store.PlanStore
	checklistStore store.ChecklistStore
	taskStore      task.TaskStore

	// Service interfaces
	machineService   service.MachineService
	planService      service.PlanService
	checklistService service.ChecklistService

	// Event system
	eventEmitter events.EventEmitter

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.machineStore = postgres.NewPostgresMachineStore(db, logger)
	app.planStore = postgres.NewPostgresPlanStore(db, logger)
	app.checklistStore = postgres.NewPostgresChecklistStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	// The reminder task factory doubles as the resolver that rebuilds
	// recovered reminder tasks on startup.
	reminderFactory, err := task.NewReminderScanTaskFactory(app.checklistStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder task factory: %w", err)
	}

	app.taskRunner = task.NewTaskRunner(app.taskStore, reminderFactory, task.TaskRunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: stuckTaskAge,
	}, logger)

	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	// Initialize event emitter and wire the reminder handler so that
	// committed plans with reminders enabled get a scan task.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewReminderEventHandler(reminderFactory, app.taskRunner, logger))
	app.eventEmitter = emitter

	// Initialize services
	app.machineService, err = service.NewMachineService(app.machineStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create machine service: %w", err)
	}

	app.planService, err = service.NewPlanService(
		db,
		app.machineStore,
		app.planStore,
		app.checklistStore,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan service: %w", err)
	}

	app.checklistService, err = service.NewChecklistService(app.checklistStore, app.planStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create checklist service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
