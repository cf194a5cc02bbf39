package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
)

// mockTaskStore implements the TaskStore interface for testing
type mockTaskStore struct {
	mutex           sync.RWMutex
	tasks           map[uuid.UUID]Task
	taskStatusTimes map[uuid.UUID]time.Time
	statusMessages  map[uuid.UUID]string
	SaveFn          func(ctx context.Context, task Task) error
	UpdateStatusFn  func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
}

// newMockTaskStore creates a new mockTaskStore with default implementations
func newMockTaskStore() *mockTaskStore {
	store := &mockTaskStore{
		tasks:           make(map[uuid.UUID]Task),
		taskStatusTimes: make(map[uuid.UUID]time.Time),
		statusMessages:  make(map[uuid.UUID]string),
	}

	// Default behavior for SaveTask
	store.SaveFn = func(ctx context.Context, task Task) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		mockTask, ok := task.(*mockTask)
		if !ok {
			// If it's not a mockTask, create a new one with the same properties
			mockTask = newMockTask(task.ID(), task.Type(), task.Payload())
			mockTask.TaskStatus = task.Status()
		}

		store.tasks[task.ID()] = mockTask
		store.taskStatusTimes[task.ID()] = time.Now()
		return nil
	}

	// Default behavior for UpdateTaskStatus
	store.UpdateStatusFn = func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		task, exists := store.tasks[taskID]
		if !exists {
			return nil // Simulate "not found" as a no-op for testing simplicity
		}

		mockTask := task.(*mockTask)
		mockTask.TaskStatus = status
		store.tasks[taskID] = mockTask
		store.taskStatusTimes[taskID] = time.Now()
		store.statusMessages[taskID] = errorMsg
		return nil
	}

	return store
}

// SaveTask persists a task to the mock store
func (s *mockTaskStore) SaveTask(ctx context.Context, task Task) error {
	return s.SaveFn(ctx, task)
}

// UpdateTaskStatus updates the status of a task in the mock store
func (s *mockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	return s.UpdateStatusFn(ctx, taskID, status, errorMsg)
}

// GetPendingTasks retrieves all tasks with "pending" status
func (s *mockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var pendingTasks []Task
	for _, task := range s.tasks {
		if task.Status() == TaskStatusPending {
			pendingTasks = append(pendingTasks, task)
		}
	}

	return pendingTasks, nil
}

// GetProcessingTasks retrieves tasks with "processing" status
func (s *mockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var processingTasks []Task
	now := time.Now()

	for _, task := range s.tasks {
		if task.Status() == TaskStatusProcessing {
			statusTime, exists := s.taskStatusTimes[task.ID()]
			// If olderThan is zero, include all processing tasks
			if olderThan == 0 || (exists && now.Sub(statusTime) > olderThan) {
				processingTasks = append(processingTasks, task)
			}
		}
	}

	return processingTasks, nil
}

// WithTx returns the same store instance; the mock has no transactions
func (s *mockTaskStore) WithTx(tx *sql.Tx) TaskStore {
	return s
}

// taskStatus returns the stored status of a task under the store's lock
func (s *mockTaskStore) taskStatus(taskID uuid.UUID) (TaskStatus, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return "", false
	}
	return task.Status(), true
}

// statusMessage returns the last status message recorded for a task
func (s *mockTaskStore) statusMessage(taskID uuid.UUID) string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.statusMessages[taskID]
}

// mockTask is a simple implementation of the Task interface for testing
type mockTask struct {
	TaskID      uuid.UUID
	TaskType    string
	TaskPayload []byte
	TaskStatus  TaskStatus
	ExecuteFn   func(ctx context.Context) error
}

// newMockTask creates a new mockTask with the given ID and type
func newMockTask(id uuid.UUID, taskType string, payload []byte) *mockTask {
	return &mockTask{
		TaskID:      id,
		TaskType:    taskType,
		TaskPayload: payload,
		TaskStatus:  TaskStatusPending,
		ExecuteFn:   func(ctx context.Context) error { return nil },
	}
}

func (t *mockTask) ID() uuid.UUID      { return t.TaskID }
func (t *mockTask) Type() string       { return t.TaskType }
func (t *mockTask) Payload() []byte    { return t.TaskPayload }
func (t *mockTask) Status() TaskStatus { return t.TaskStatus }

func (t *mockTask) Execute(ctx context.Context) error {
	return t.ExecuteFn(ctx)
}

// mockPayload is a sample payload structure used for testing
type mockPayload struct {
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}

// createMockTaskWithPayload is a helper to create a mockTask with a structured payload
func createMockTaskWithPayload(message string) *mockTask {
	payload := mockPayload{
		Message: message,
		Created: time.Now().UTC(),
	}

	data, _ := json.Marshal(payload)
	return newMockTask(uuid.New(), "mock_task", data)
}

// fakeChecklistReader implements ChecklistReader with canned results.
// If notify is non-nil, every ListDue call sends its due date there, so
// tests can observe calls made from worker goroutines.
type fakeChecklistReader struct {
	items  []*domain.ChecklistItem
	err    error
	notify chan time.Time
}

func (r *fakeChecklistReader) ListDue(ctx context.Context, due time.Time) ([]*domain.ChecklistItem, error) {
	if r.notify != nil {
		r.notify <- due
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.items, nil
}
