package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestTaskRunner_Submit(t *testing.T) {
	t.Parallel()

	logger := testLogger()

	t.Run("successful submission", func(t *testing.T) {
		t.Parallel()

		store := newMockTaskStore()
		runner := NewTaskRunner(store, nil, DefaultTaskRunnerConfig(), logger)

		task := createMockTaskWithPayload("test task")
		err := runner.Submit(context.Background(), task)

		assert.NoError(t, err)

		// Verify task was saved to store
		pendingTasks, _ := store.GetPendingTasks(context.Background())
		assert.Contains(t, extractTaskIDs(pendingTasks), task.ID())
	})

	t.Run("queue full", func(t *testing.T) {
		t.Parallel()

		store := newMockTaskStore()
		config := DefaultTaskRunnerConfig()
		config.QueueSize = 1

		runner := NewTaskRunner(store, nil, config, logger)

		// Fill the queue
		task1 := createMockTaskWithPayload("task 1")
		err := runner.Submit(context.Background(), task1)
		require.NoError(t, err)

		// Second submission has nowhere to go
		task2 := createMockTaskWithPayload("task 2")
		err = runner.Submit(context.Background(), task2)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "queue is full")
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()

		errorStore := newMockTaskStore()
		errorStore.SaveFn = func(ctx context.Context, task Task) error {
			return errors.New("mock store error")
		}

		runner := NewTaskRunner(errorStore, nil, DefaultTaskRunnerConfig(), logger)

		task := createMockTaskWithPayload("error task")
		err := runner.Submit(context.Background(), task)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save task")
	})
}

func TestTaskRunner_Start_and_Processing(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	logger := testLogger()

	config := DefaultTaskRunnerConfig()
	config.WorkerCount = 2
	config.QueueSize = 10

	runner := NewTaskRunner(store, nil, config, logger)

	// Channel to verify task execution
	taskCompletedChan := make(chan uuid.UUID, 5)

	var mu sync.Mutex
	taskIDs := make([]uuid.UUID, 0, 3)

	for i := 0; i < 3; i++ {
		task := createMockTaskWithPayload("test task")

		mu.Lock()
		taskIDs = append(taskIDs, task.ID())
		mu.Unlock()

		taskID := task.ID()
		task.ExecuteFn = func(ctx context.Context) error {
			taskCompletedChan <- taskID
			return nil
		}

		err := runner.Submit(context.Background(), task)
		require.NoError(t, err)
	}

	err := runner.Start()
	require.NoError(t, err)

	// Collect completed tasks with a timeout
	completedTasks := make(map[uuid.UUID]bool)
	timeout := time.After(2 * time.Second)

taskWaitLoop:
	for len(completedTasks) < 3 {
		select {
		case taskID := <-taskCompletedChan:
			completedTasks[taskID] = true
		case <-timeout:
			break taskWaitLoop
		}
	}

	runner.Stop()

	mu.Lock()
	defer mu.Unlock()

	for _, id := range taskIDs {
		assert.True(t, completedTasks[id], "Task %s should have been completed", id)
	}
	assert.Len(t, completedTasks, 3, "All 3 tasks should have been completed")
}

func TestTaskRunner_TaskFailure(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	logger := testLogger()

	runner := NewTaskRunner(store, nil, DefaultTaskRunnerConfig(), logger)

	// Channel to track error handler calls
	errorChan := make(chan struct{}, 1)

	runner.SetErrorHandler(func(task Task, err error) {
		errorChan <- struct{}{}
	})

	task := createMockTaskWithPayload("failing task")
	task.ExecuteFn = func(ctx context.Context) error {
		return errors.New("intentional test failure")
	}

	err := runner.Submit(context.Background(), task)
	require.NoError(t, err)

	err = runner.Start()
	require.NoError(t, err)

	select {
	case <-errorChan:
		// Error handler was called as expected
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for error handler to be called")
	}

	// Allow the status update that follows Execute to land
	time.Sleep(100 * time.Millisecond)

	runner.Stop()

	status, found := store.taskStatus(task.ID())
	require.True(t, found)
	assert.Equal(t, TaskStatusFailed, status, "Task should be marked as failed")
}

func TestTaskRunner_Recover(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	logger := testLogger()

	// Add some pending and processing tasks to the store
	pendingTask := createMockTaskWithPayload("pending task")
	processingTask := createMockTaskWithPayload("processing task")

	require.NoError(t, store.SaveTask(context.Background(), pendingTask))

	require.NoError(t, store.SaveTask(context.Background(), processingTask))
	require.NoError(
		t,
		store.UpdateTaskStatus(context.Background(), processingTask.ID(), TaskStatusProcessing, ""),
	)

	// Channel to track task execution
	taskCompletedChan := make(chan uuid.UUID, 5)

	runner := NewTaskRunner(store, nil, DefaultTaskRunnerConfig(), logger)

	// Set ExecuteFn for all stored tasks to signal completion
	for id, storedTask := range store.tasks {
		taskID := id
		storedTask.(*mockTask).ExecuteFn = func(ctx context.Context) error {
			taskCompletedChan <- taskID
			return nil
		}
	}

	// Start triggers recovery
	err := runner.Start()
	require.NoError(t, err)

	expectedTasks := map[uuid.UUID]bool{
		pendingTask.ID():    false,
		processingTask.ID(): false,
	}

	timeout := time.After(2 * time.Second)

taskWaitLoop:
	for {
		allCompleted := true
		for _, completed := range expectedTasks {
			if !completed {
				allCompleted = false
				break
			}
		}

		if allCompleted {
			break taskWaitLoop
		}

		select {
		case taskID := <-taskCompletedChan:
			expectedTasks[taskID] = true
		case <-timeout:
			break taskWaitLoop
		}
	}

	runner.Stop()

	assert.True(t, expectedTasks[pendingTask.ID()], "Pending task should have been completed")
	assert.True(t, expectedTasks[processingTask.ID()], "Processing task should have been completed")
}

func TestTaskRunner_Recover_ResetsProcessingToPending(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	logger := testLogger()

	// A task left in "processing" by a crashed run
	interrupted := createMockTaskWithPayload("interrupted task")
	require.NoError(t, store.SaveTask(context.Background(), interrupted))
	require.NoError(
		t,
		store.UpdateTaskStatus(context.Background(), interrupted.ID(), TaskStatusProcessing, ""),
	)

	runner := NewTaskRunner(store, nil, DefaultTaskRunnerConfig(), logger)

	// Recover without starting workers so the status reset is observable
	err := runner.Recover()
	require.NoError(t, err)

	status, found := store.taskStatus(interrupted.ID())
	require.True(t, found)
	assert.Equal(t, TaskStatusPending, status)
	assert.Equal(t, "Reset after recovery", store.statusMessage(interrupted.ID()))
}

func TestTaskRunner_Recover_MarksUnresolvableTaskFailed(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	logger := testLogger()

	reader := &fakeChecklistReader{}
	factory, err := NewReminderScanTaskFactory(reader, logger)
	require.NoError(t, err)

	// A persisted row whose type no resolver recognizes
	orphan := NewRecoveredTask(uuid.New(), "mock_task", []byte(`{}`), TaskStatusPending)
	require.NoError(t, store.SaveTask(context.Background(), orphan))

	runner := NewTaskRunner(store, factory, DefaultTaskRunnerConfig(), logger)

	err = runner.Recover()
	require.NoError(t, err)

	status, found := store.taskStatus(orphan.ID())
	require.True(t, found)
	assert.Equal(t, TaskStatusFailed, status)
	assert.Contains(t, store.statusMessage(orphan.ID()), "unknown task type")
}

func TestTaskRunner_Recover_ResolvesReminderScan(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	logger := testLogger()

	scanned := make(chan time.Time, 1)
	reader := &fakeChecklistReader{notify: scanned}
	factory, err := NewReminderScanTaskFactory(reader, logger)
	require.NoError(t, err)

	// A reminder scan persisted by a previous run
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	persisted, err := NewReminderScanTask(asOf, reader, logger)
	require.NoError(t, err)

	recovered := NewRecoveredTask(
		persisted.ID(),
		TaskTypeReminderScan,
		persisted.Payload(),
		TaskStatusPending,
	)
	require.NoError(t, store.SaveTask(context.Background(), recovered))

	runner := NewTaskRunner(store, factory, DefaultTaskRunnerConfig(), logger)

	err = runner.Start()
	require.NoError(t, err)

	select {
	case due := <-scanned:
		assert.True(t, asOf.Equal(due), "resolved scan should keep its persisted as-of date")
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for recovered reminder scan to run")
	}

	runner.Stop()
}

func TestTaskRunner_StuckTasks(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	logger := testLogger()

	// Create a task, mark it processing and age its status timestamp
	stuckTask := createMockTaskWithPayload("stuck task")
	require.NoError(t, store.SaveTask(context.Background(), stuckTask))
	require.NoError(
		t,
		store.UpdateTaskStatus(context.Background(), stuckTask.ID(), TaskStatusProcessing, ""),
	)
	store.taskStatusTimes[stuckTask.ID()] = time.Now().Add(-30 * time.Minute)

	taskCompletedChan := make(chan uuid.UUID, 5)

	store.tasks[stuckTask.ID()].(*mockTask).ExecuteFn = func(ctx context.Context) error {
		taskCompletedChan <- stuckTask.ID()
		return nil
	}

	config := DefaultTaskRunnerConfig()
	config.StuckTaskAge = 15 * time.Minute
	config.StuckTaskCheckInterval = 100 * time.Millisecond

	runner := NewTaskRunner(store, nil, config, logger)

	err := runner.Start()
	require.NoError(t, err)

	select {
	case taskID := <-taskCompletedChan:
		assert.Equal(t, stuckTask.ID(), taskID, "Stuck task should have been executed")
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for stuck task to be executed")
	}

	runner.Stop()
}

// Helper to extract task IDs from a slice of tasks
func extractTaskIDs(tasks []Task) []uuid.UUID {
	ids := make([]uuid.UUID, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID()
	}
	return ids
}
