package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marchukov/upkeep-api/internal/events"
)

// ReminderEventHandler implements the events.EventHandler interface. It
// reacts to plan-created events by scheduling a reminder scan when the new
// plan has reminders enabled.
type ReminderEventHandler struct {
	factory *ReminderScanTaskFactory
	runner  interface {
		Submit(ctx context.Context, task Task) error
	}
	logger *slog.Logger
}

// NewReminderEventHandler creates an event handler that uses the given
// factory to build reminder scan tasks and submits them to the runner.
func NewReminderEventHandler(
	factory *ReminderScanTaskFactory,
	runner interface {
		Submit(ctx context.Context, task Task) error
	},
	logger *slog.Logger,
) *ReminderEventHandler {
	return &ReminderEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "reminder_event_handler"),
	}
}

// HandleEvent processes plan-created events. Events of other types, and
// plans without reminders enabled, are ignored.
func (h *ReminderEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != events.EventTypePlanCreated {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload events.PlanCreatedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if !payload.ReminderEnabled {
		h.logger.Debug("plan has reminders disabled, skipping scan",
			"plan_id", payload.PlanID,
			"event_id", event.ID)
		return nil
	}

	// Scan as of today so an already-due first occurrence is reported
	// immediately.
	t, err := h.factory.CreateTask(time.Now())
	if err != nil {
		h.logger.Error("failed to create reminder scan task",
			"error", err,
			"plan_id", payload.PlanID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create reminder scan task: %w", err)
	}

	if err := h.runner.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit reminder scan task",
			"error", err,
			"task_id", t.ID(),
			"plan_id", payload.PlanID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit reminder scan task: %w", err)
	}

	h.logger.Info("reminder scan scheduled",
		"task_id", t.ID(),
		"plan_id", payload.PlanID,
		"event_id", event.ID)
	return nil
}

// Ensure ReminderEventHandler implements events.EventHandler
var _ events.EventHandler = (*ReminderEventHandler)(nil)
