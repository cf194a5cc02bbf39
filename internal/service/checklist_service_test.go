package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checklistFixture struct {
	svc   service.ChecklistService
	plan  *domain.MaintenancePlan
	item  *domain.ChecklistItem
	items *fakeChecklistStore
}

func newChecklistFixture(t *testing.T, attachmentRequired bool) *checklistFixture {
	t.Helper()

	plan, err := domain.NewMaintenancePlan(
		uuid.New(),
		"Bearing inspection",
		domain.PriorityMedium,
		domain.FrequencyMonthly,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	plan.AttachmentRequired = attachmentRequired

	item, err := domain.NewChecklistItem(
		plan.ID, "B-001", plan.StartDate, "Bearing inspection", "Mechanical")
	require.NoError(t, err)

	items := newFakeChecklistStore(item)
	svc, err := service.NewChecklistService(items, newFakePlanStore(plan), nil)
	require.NoError(t, err)

	return &checklistFixture{svc: svc, plan: plan, item: item, items: items}
}

func TestUpdateItemAppliesStatusAndEvidence(t *testing.T) {
	t.Parallel()

	f := newChecklistFixture(t, false)

	remarks := "slight vibration on spin-down"
	temp := 63.5
	cost := 120.0

	updated, err := f.svc.UpdateItem(context.Background(), f.item.ID, service.ItemUpdateRequest{
		Status:      domain.ItemStatusCompleted,
		Remarks:     &remarks,
		Temperature: &temp,
		Cost:        &cost,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ItemStatusCompleted, updated.Status)
	require.NotNil(t, updated.Remarks)
	assert.Equal(t, remarks, *updated.Remarks)
	require.NotNil(t, updated.Temperature)
	assert.Equal(t, temp, *updated.Temperature)
	assert.Nil(t, updated.SoundReading, "omitted evidence stays untouched")
}

func TestUpdateItemRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	f := newChecklistFixture(t, false)

	_, err := f.svc.UpdateItem(context.Background(), f.item.ID, service.ItemUpdateRequest{
		Status: domain.ItemStatus("done"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItemStatus)
}

func TestUpdateItemNotFound(t *testing.T) {
	t.Parallel()

	f := newChecklistFixture(t, false)

	_, err := f.svc.UpdateItem(context.Background(), uuid.New(), service.ItemUpdateRequest{
		Status: domain.ItemStatusInProgress,
	})
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestUpdateItemAttachmentRule(t *testing.T) {
	t.Parallel()

	t.Run("completion without image is rejected", func(t *testing.T) {
		t.Parallel()
		f := newChecklistFixture(t, true)

		_, err := f.svc.UpdateItem(context.Background(), f.item.ID, service.ItemUpdateRequest{
			Status: domain.ItemStatusCompleted,
		})
		assert.ErrorIs(t, err, service.ErrAttachmentMissing)
	})

	t.Run("completion with image in the update passes", func(t *testing.T) {
		t.Parallel()
		f := newChecklistFixture(t, true)

		img := "https://files.example.com/evidence/b-001.jpg"
		updated, err := f.svc.UpdateItem(context.Background(), f.item.ID, service.ItemUpdateRequest{
			Status:   domain.ItemStatusCompleted,
			ImageURL: &img,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ItemStatusCompleted, updated.Status)
	})

	t.Run("completion with previously stored image passes", func(t *testing.T) {
		t.Parallel()
		f := newChecklistFixture(t, true)

		img := "https://files.example.com/evidence/b-001.jpg"
		f.item.ImageURL = &img

		_, err := f.svc.UpdateItem(context.Background(), f.item.ID, service.ItemUpdateRequest{
			Status: domain.ItemStatusCompleted,
		})
		assert.NoError(t, err)
	})

	t.Run("in-progress transition skips the attachment check", func(t *testing.T) {
		t.Parallel()
		f := newChecklistFixture(t, true)

		_, err := f.svc.UpdateItem(context.Background(), f.item.ID, service.ItemUpdateRequest{
			Status: domain.ItemStatusInProgress,
		})
		assert.NoError(t, err)
	})
}

func TestListItemsRequiresExistingPlan(t *testing.T) {
	t.Parallel()

	f := newChecklistFixture(t, false)

	items, err := f.svc.ListItems(context.Background(), f.plan.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = f.svc.ListItems(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrPlanNotFound)
}
