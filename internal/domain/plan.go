package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Priority ranks how urgent a maintenance plan is.
type Priority string

// Possible plan priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is a recognized priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// PlanStatus is the lifecycle state of a maintenance plan as a whole.
// Individual checklist items carry their own status.
type PlanStatus string

// Possible plan status values.
const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusCancelled PlanStatus = "cancelled"
)

// IsValid reports whether s is a recognized plan status.
func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanStatusActive, PlanStatusCompleted, PlanStatusCancelled:
		return true
	}
	return false
}

// Plan-specific validation errors
var (
	// ErrPlanIDEmpty is returned when a plan ID is empty or nil.
	ErrPlanIDEmpty = errors.New("plan ID cannot be empty")

	// ErrPlanMachineIDEmpty is returned when a plan's machine ID is empty or nil.
	ErrPlanMachineIDEmpty = errors.New("plan machine ID cannot be empty")

	// ErrPlanTitleEmpty is returned when a plan's title is empty.
	ErrPlanTitleEmpty = errors.New("plan title cannot be empty")

	// ErrPlanStartDateZero is returned when a plan has no start date.
	ErrPlanStartDateZero = errors.New("plan start date cannot be zero")
)

// MaintenancePlan represents one assignment of recurring or single
// maintenance work to a machine. A plan exclusively owns its checklist
// items; all items are created together when the plan is created and are
// removed with it (ON DELETE CASCADE at the store level).
//
// Invariant: EndDate >= StartDate. The stored end date is computed from
// the frequency rules at assignment time and is never recomputed; for
// several frequencies it is a year-long span heuristic rather than the
// exact last occurrence (see schedule.EndDate).
type MaintenancePlan struct {
	ID                   uuid.UUID  `json:"id"`
	MachineID            uuid.UUID  `json:"machine_id"`
	Title                string     `json:"title"`
	Priority             Priority   `json:"priority"`
	Status               PlanStatus `json:"status"`
	Frequency            Frequency  `json:"frequency"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              time.Time  `json:"end_date"`
	Assignee             string     `json:"assignee"`
	Requester            string     `json:"requester"`
	TemperatureSensitive bool       `json:"temperature_sensitive"`
	ReminderEnabled      bool       `json:"reminder_enabled"`
	AttachmentRequired   bool       `json:"attachment_required"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewMaintenancePlan creates a new MaintenancePlan in the active state.
// It generates a new UUID for the plan ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewMaintenancePlan(
	machineID uuid.UUID,
	title string,
	priority Priority,
	frequency Frequency,
	startDate, endDate time.Time,
) (*MaintenancePlan, error) {
	plan := &MaintenancePlan{
		ID:        uuid.New(),
		MachineID: machineID,
		Title:     title,
		Priority:  priority,
		Status:    PlanStatusActive,
		Frequency: frequency,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

// Validate checks if the MaintenancePlan has valid data.
// Returns an error if any field fails validation.
func (p *MaintenancePlan) Validate() error {
	if p.ID == uuid.Nil {
		return ErrPlanIDEmpty
	}

	if p.MachineID == uuid.Nil {
		return ErrPlanMachineIDEmpty
	}

	if p.Title == "" {
		return ErrPlanTitleEmpty
	}

	if !p.Priority.IsValid() {
		return ErrInvalidPriority
	}

	if !p.Status.IsValid() {
		return ErrInvalidPlanStatus
	}

	if !p.Frequency.IsValid() {
		return ErrInvalidFrequency
	}

	if p.StartDate.IsZero() {
		return ErrPlanStartDateZero
	}

	if !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return ErrEndBeforeStart
	}

	return nil
}
