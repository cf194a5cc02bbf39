package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTaskRunner mock implementation of the runner used by the handler
type mockTaskRunner struct {
	SubmitFn       func(ctx context.Context, task Task) error
	SubmitCalled   bool
	LastSubmitTask Task
}

func (m *mockTaskRunner) Submit(ctx context.Context, task Task) error {
	m.SubmitCalled = true
	m.LastSubmitTask = task
	return m.SubmitFn(ctx, task)
}

func planCreatedEvent(t *testing.T, reminderEnabled bool) *events.TaskRequestEvent {
	t.Helper()

	event, err := events.NewPlanCreatedEvent(events.PlanCreatedPayload{
		PlanID:          uuid.New(),
		MachineID:       uuid.New(),
		StartDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ReminderEnabled: reminderEnabled,
	})
	require.NoError(t, err)
	return event
}

func TestReminderEventHandler_HandleEvent(t *testing.T) {
	t.Parallel()

	logger := testLogger()

	newHandler := func(t *testing.T, runner *mockTaskRunner) *ReminderEventHandler {
		t.Helper()

		factory, err := NewReminderScanTaskFactory(&fakeChecklistReader{}, logger)
		require.NoError(t, err)
		return NewReminderEventHandler(factory, runner, logger)
	}

	t.Run("schedules scan for reminder-enabled plan", func(t *testing.T) {
		t.Parallel()

		runner := &mockTaskRunner{
			SubmitFn: func(ctx context.Context, task Task) error { return nil },
		}
		handler := newHandler(t, runner)

		err := handler.HandleEvent(context.Background(), planCreatedEvent(t, true))
		assert.NoError(t, err)

		require.True(t, runner.SubmitCalled)
		assert.Equal(t, TaskTypeReminderScan, runner.LastSubmitTask.Type())
	})

	t.Run("skips plan with reminders disabled", func(t *testing.T) {
		t.Parallel()

		runner := &mockTaskRunner{
			SubmitFn: func(ctx context.Context, task Task) error {
				t.Fail() // Should not be called
				return nil
			},
		}
		handler := newHandler(t, runner)

		err := handler.HandleEvent(context.Background(), planCreatedEvent(t, false))
		assert.NoError(t, err)
		assert.False(t, runner.SubmitCalled)
	})

	t.Run("ignores unsupported event type", func(t *testing.T) {
		t.Parallel()

		runner := &mockTaskRunner{
			SubmitFn: func(ctx context.Context, task Task) error {
				t.Fail() // Should not be called
				return nil
			},
		}
		handler := newHandler(t, runner)

		event, err := events.NewTaskRequestEvent("machine_deleted", map[string]string{})
		require.NoError(t, err)

		err = handler.HandleEvent(context.Background(), event)
		assert.NoError(t, err)
		assert.False(t, runner.SubmitCalled)
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()

		runner := &mockTaskRunner{
			SubmitFn: func(ctx context.Context, task Task) error { return nil },
		}
		handler := newHandler(t, runner)

		event := &events.TaskRequestEvent{
			ID:      uuid.New(),
			Type:    events.EventTypePlanCreated,
			Payload: []byte(`not json`),
		}

		err := handler.HandleEvent(context.Background(), event)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal payload")
		assert.False(t, runner.SubmitCalled)
	})

	t.Run("submit failure is propagated", func(t *testing.T) {
		t.Parallel()

		runner := &mockTaskRunner{
			SubmitFn: func(ctx context.Context, task Task) error {
				return errors.New("task queue is full")
			},
		}
		handler := newHandler(t, runner)

		err := handler.HandleEvent(context.Background(), planCreatedEvent(t, true))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to submit reminder scan task")
	})
}
