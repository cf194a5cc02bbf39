// Package task provides background task processing for work that must not
// block an API request, currently the reminder scans for reminder-enabled
// maintenance plans. Tasks are persisted to the tasks table before being
// queued so unfinished work survives a restart.
package task

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeReminderScan represents the task type for scanning due
	// checklist items of reminder-enabled plans
	TaskTypeReminderScan = "reminder_scan"
)

// ErrUnknownTaskType is returned when a recovered task's type has no
// registered resolver.
var ErrUnknownTaskType = errors.New("unknown task type")

// Task represents a unit of background work to be processed
// Version: 1.0
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// Resolver rebuilds an executable task from its persisted type and
// payload. The runner uses it during recovery, since rows loaded from the
// tasks table carry data but no behavior.
type Resolver interface {
	// Resolve returns an executable task for the given recovered task.
	// Returns ErrUnknownTaskType if the type is not recognized.
	Resolve(t Task) (Task, error)
}

// TaskStore defines the interface for persisting tasks
// Version: 1.0
type TaskStore interface {
	// SaveTask persists a task to the database
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks retrieves all tasks with "pending" status
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks retrieves tasks with "processing" status
	// If olderThan is non-zero, only returns tasks that have been in this state
	// longer than the specified duration
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}

// recoveredTask carries the persisted fields of a task loaded from the
// database. It has no behavior of its own; Execute fails until a Resolver
// turns it into a concrete task.
type recoveredTask struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	status   TaskStatus
}

// NewRecoveredTask wraps a persisted task row as a Task. Stores use this
// when loading unfinished tasks for recovery.
func NewRecoveredTask(id uuid.UUID, taskType string, payload []byte, status TaskStatus) Task {
	return &recoveredTask{
		id:       id,
		taskType: taskType,
		payload:  payload,
		status:   status,
	}
}

func (t *recoveredTask) ID() uuid.UUID      { return t.id }
func (t *recoveredTask) Type() string       { return t.taskType }
func (t *recoveredTask) Payload() []byte    { return t.payload }
func (t *recoveredTask) Status() TaskStatus { return t.status }

func (t *recoveredTask) Execute(ctx context.Context) error {
	return errors.New("recovered task was not resolved before execution")
}
