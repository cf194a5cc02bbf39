package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ItemStatus is the lifecycle state of a single checklist item.
type ItemStatus string

// Possible checklist item status values.
const (
	ItemStatusPending    ItemStatus = "pending"
	ItemStatusInProgress ItemStatus = "in_progress"
	ItemStatusCompleted  ItemStatus = "completed"
	ItemStatusApproved   ItemStatus = "approved"
	ItemStatusRejected   ItemStatus = "rejected"
)

// IsValid reports whether s is a recognized checklist item status.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusInProgress, ItemStatusCompleted,
		ItemStatusApproved, ItemStatusRejected:
		return true
	}
	return false
}

// Checklist-item-specific validation errors
var (
	// ErrItemIDEmpty is returned when a checklist item ID is empty or nil.
	ErrItemIDEmpty = errors.New("checklist item ID cannot be empty")

	// ErrItemPlanIDEmpty is returned when an item's plan ID is empty or nil.
	ErrItemPlanIDEmpty = errors.New("checklist item plan ID cannot be empty")

	// ErrItemTaskNoEmpty is returned when an item's task number is empty.
	ErrItemTaskNoEmpty = errors.New("checklist item task number cannot be empty")

	// ErrItemDueDateZero is returned when an item has no due date.
	ErrItemDueDateZero = errors.New("checklist item due date cannot be zero")
)

// ChecklistItem represents one scheduled occurrence of a plan's work.
// Items are created in a batch at plan-creation time with status pending
// and empty evidence fields; each item then transitions independently as
// the work proceeds.
//
// TaskNo is unique within its machine-prefix namespace across all plans
// for that machine, not just within the owning plan.
type ChecklistItem struct {
	ID           uuid.UUID  `json:"id"`
	PlanID       uuid.UUID  `json:"plan_id"`
	TaskNo       string     `json:"task_no"`
	DueDate      time.Time  `json:"due_date"`
	Description  string     `json:"description"`
	Department   string     `json:"department"`
	Status       ItemStatus `json:"status"`
	Remarks      *string    `json:"remarks,omitempty"`
	Temperature  *float64   `json:"temperature,omitempty"`
	SoundReading *string    `json:"sound_reading,omitempty"`
	Cost         *float64   `json:"cost,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewChecklistItem creates a pending checklist item for one occurrence of
// a plan. The evidence fields start empty and are filled in as the item is
// worked on. Returns an error if validation fails.
func NewChecklistItem(
	planID uuid.UUID,
	taskNo string,
	dueDate time.Time,
	description, department string,
) (*ChecklistItem, error) {
	item := &ChecklistItem{
		ID:          uuid.New(),
		PlanID:      planID,
		TaskNo:      taskNo,
		DueDate:     dueDate,
		Description: description,
		Department:  department,
		Status:      ItemStatusPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the ChecklistItem has valid data.
// Returns an error if any field fails validation.
func (c *ChecklistItem) Validate() error {
	if c.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if c.PlanID == uuid.Nil {
		return ErrItemPlanIDEmpty
	}

	if c.TaskNo == "" {
		return ErrItemTaskNoEmpty
	}

	if c.DueDate.IsZero() {
		return ErrItemDueDateZero
	}

	if !c.Status.IsValid() {
		return ErrInvalidItemStatus
	}

	return nil
}
