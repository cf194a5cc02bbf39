package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
)

// Common errors
var (
	ErrNilChecklistReader = errors.New("checklist reader cannot be nil")
	ErrNilLogger          = errors.New("logger cannot be nil")
)

// ChecklistReader provides the due-item view the reminder scan needs.
// Implemented by the checklist store; declared here so the task package
// does not depend on the store package.
type ChecklistReader interface {
	// ListDue retrieves pending or in-progress items of reminder-enabled
	// plans whose due date is on or before the given date.
	ListDue(ctx context.Context, due time.Time) ([]*domain.ChecklistItem, error)
}

// reminderScanPayload represents the serialized data stored in the task
type reminderScanPayload struct {
	AsOf time.Time `json:"as_of"`
}

// ReminderScanTask implements the Task interface. It scans for checklist
// items of reminder-enabled plans that are due on or before its as-of
// date and emits one structured log record per due item. The log stream
// is the reminder feed; notification transports sit outside this service.
type ReminderScanTask struct {
	id     uuid.UUID
	asOf   time.Time
	reader ChecklistReader
	logger *slog.Logger
	status TaskStatus
}

// NewReminderScanTask creates a reminder scan for the given as-of date.
func NewReminderScanTask(
	asOf time.Time,
	reader ChecklistReader,
	logger *slog.Logger,
) (*ReminderScanTask, error) {
	if reader == nil {
		return nil, ErrNilChecklistReader
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &ReminderScanTask{
		id:     uuid.New(),
		asOf:   asOf,
		reader: reader,
		logger: logger.With("task_type", TaskTypeReminderScan),
		status: TaskStatusPending,
	}, nil
}

// ID implements Task.ID
func (t *ReminderScanTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.Type
func (t *ReminderScanTask) Type() string {
	return TaskTypeReminderScan
}

// Payload implements Task.Payload
func (t *ReminderScanTask) Payload() []byte {
	data, err := json.Marshal(reminderScanPayload{AsOf: t.asOf})
	if err != nil {
		// Marshalling a bare time.Time cannot fail in practice.
		return nil
	}
	return data
}

// Status implements Task.Status
func (t *ReminderScanTask) Status() TaskStatus {
	return t.status
}

// Execute implements Task.Execute. It lists every due item and logs a
// reminder record for each.
func (t *ReminderScanTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	items, err := t.reader.ListDue(ctx, t.asOf)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to list due checklist items: %w", err)
	}

	for _, item := range items {
		t.logger.Info("maintenance reminder",
			"item_id", item.ID,
			"plan_id", item.PlanID,
			"task_no", item.TaskNo,
			"due_date", item.DueDate.Format("2006-01-02"),
			"description", item.Description,
			"department", item.Department)
	}

	t.logger.Info("reminder scan finished",
		"as_of", t.asOf.Format("2006-01-02"),
		"due_count", len(items))

	t.status = TaskStatusCompleted
	return nil
}

// ReminderScanTaskFactory creates ReminderScanTask instances and resolves
// recovered reminder tasks back into executable ones.
type ReminderScanTaskFactory struct {
	reader ChecklistReader
	logger *slog.Logger
}

// NewReminderScanTaskFactory creates a factory bound to the given reader.
func NewReminderScanTaskFactory(
	reader ChecklistReader,
	logger *slog.Logger,
) (*ReminderScanTaskFactory, error) {
	if reader == nil {
		return nil, ErrNilChecklistReader
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &ReminderScanTaskFactory{
		reader: reader,
		logger: logger,
	}, nil
}

// CreateTask creates a new ReminderScanTask for the given as-of date.
func (f *ReminderScanTaskFactory) CreateTask(asOf time.Time) (Task, error) {
	return NewReminderScanTask(asOf, f.reader, f.logger)
}

// Resolve implements Resolver. Recovered reminder tasks keep their
// persisted ID so status updates hit the original row.
func (f *ReminderScanTaskFactory) Resolve(t Task) (Task, error) {
	if t.Type() != TaskTypeReminderScan {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaskType, t.Type())
	}

	var payload reminderScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reminder scan payload: %w", err)
	}

	resolved, err := NewReminderScanTask(payload.AsOf, f.reader, f.logger)
	if err != nil {
		return nil, err
	}
	resolved.id = t.ID()
	resolved.status = t.Status()
	return resolved, nil
}

// Ensure the factory satisfies Resolver
var _ Resolver = (*ReminderScanTaskFactory)(nil)
