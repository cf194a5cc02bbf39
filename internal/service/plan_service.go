package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/domain/schedule"
	"github.com/marchukov/upkeep-api/internal/domain/tasknum"
	"github.com/marchukov/upkeep-api/internal/events"
	"github.com/marchukov/upkeep-api/internal/store"
)

// PlanServiceError wraps errors from the plan service with context.
type PlanServiceError struct {
	// Operation is the operation that failed (e.g., "assign_plan", "delete_plan")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for PlanServiceError.
func (e *PlanServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plan service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("plan service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PlanServiceError) Unwrap() error {
	return e.Err
}

// NewPlanServiceError creates a new PlanServiceError.
// It returns known sentinel errors directly without wrapping.
func NewPlanServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	// Service-level sentinels pass through untouched
	if errors.Is(err, ErrMachineNotFound) || errors.Is(err, ErrPlanNotFound) {
		return err
	}

	// Store-level sentinels map to service-level ones
	if errors.Is(err, store.ErrMachineNotFound) {
		return ErrMachineNotFound
	}
	if errors.Is(err, store.ErrPlanNotFound) {
		return ErrPlanNotFound
	}

	return &PlanServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// AssignmentRequest carries the fields collected from the requester when
// a machine is assigned a maintenance plan.
type AssignmentRequest struct {
	MachineID            uuid.UUID
	Title                string
	Priority             domain.Priority
	Frequency            domain.Frequency
	StartDate            time.Time
	WorkDescription      string
	PartName             string
	Assignee             string
	Requester            string
	TemperatureSensitive bool
	ReminderEnabled      bool
	AttachmentRequired   bool
}

// AssignmentPreview describes the plan a request would produce without
// persisting anything. Task numbers are tentative: another assignment
// committed before this one takes the same sequence range.
type AssignmentPreview struct {
	Plan  *domain.MaintenancePlan
	Items []*domain.ChecklistItem
}

// PlanDetail bundles a plan with its checklist items.
type PlanDetail struct {
	Plan  *domain.MaintenancePlan
	Items []*domain.ChecklistItem
}

// PlanService provides maintenance plan operations.
type PlanService interface {
	// AssignPlan creates a plan and its full checklist item batch in one
	// transaction, then emits a plan-created event for background
	// follow-up such as reminder scheduling.
	AssignPlan(ctx context.Context, req AssignmentRequest) (*PlanDetail, error)

	// PreviewAssignment materializes a request without persisting it, so
	// callers can show the occurrence dates and tentative task numbers
	// before committing.
	PreviewAssignment(ctx context.Context, req AssignmentRequest) (*AssignmentPreview, error)

	// GetPlan retrieves a plan and its checklist items.
	GetPlan(ctx context.Context, planID uuid.UUID) (*PlanDetail, error)

	// ListPlans retrieves plans matching the filter, newest first.
	ListPlans(ctx context.Context, filter store.PlanFilter) ([]*domain.MaintenancePlan, error)

	// UpdatePlanStatus moves a plan through its lifecycle.
	UpdatePlanStatus(ctx context.Context, planID uuid.UUID, status domain.PlanStatus) error

	// DeletePlan removes a plan and, via schema-level cascade, its items.
	DeletePlan(ctx context.Context, planID uuid.UUID) error
}

// planServiceImpl implements the PlanService interface
type planServiceImpl struct {
	db             *sql.DB
	machineStore   store.MachineStore
	planStore      store.PlanStore
	checklistStore store.ChecklistStore
	eventEmitter   events.EventEmitter
	logger         *slog.Logger
}

// NewPlanService creates a new PlanService.
// It returns an error if any of the required dependencies are nil.
func NewPlanService(
	db *sql.DB,
	machineStore store.MachineStore,
	planStore store.PlanStore,
	checklistStore store.ChecklistStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (PlanService, error) {
	if db == nil {
		return nil, &PlanServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if machineStore == nil {
		return nil, &PlanServiceError{Operation: "create_service", Message: "machineStore cannot be nil"}
	}
	if planStore == nil {
		return nil, &PlanServiceError{Operation: "create_service", Message: "planStore cannot be nil"}
	}
	if checklistStore == nil {
		return nil, &PlanServiceError{Operation: "create_service", Message: "checklistStore cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &PlanServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &planServiceImpl{
		db:             db,
		machineStore:   machineStore,
		planStore:      planStore,
		checklistStore: checklistStore,
		eventEmitter:   eventEmitter,
		logger:         logger.With(slog.String("component", "plan_service")),
	}, nil
}

// AssignPlan implements PlanService.AssignPlan
//
// The sequence read, the plan insert, and the item batch insert all run
// inside one transaction. Two concurrent assignments for the same
// machine therefore cannot both observe the same maximum suffix and
// commit colliding task numbers: the later one either serializes behind
// the first or fails on the unique constraint and rolls back whole.
func (s *planServiceImpl) AssignPlan(ctx context.Context, req AssignmentRequest) (*PlanDetail, error) {
	machine, err := s.machineStore.GetByID(ctx, req.MachineID)
	if err != nil {
		s.logger.Error("failed to load machine for assignment",
			"error", err,
			"machine_id", req.MachineID)
		return nil, NewPlanServiceError("assign_plan", "failed to load machine", err)
	}

	var plan *domain.MaintenancePlan
	var items []*domain.ChecklistItem

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txPlans := s.planStore.WithTx(tx)
		txItems := s.checklistStore.WithTx(tx)

		prefix := tasknum.Prefix(machine.Name)
		maxSeq, err := txItems.MaxTaskSeq(ctx, prefix)
		if err != nil {
			return NewPlanServiceError("assign_plan", "failed to determine next task number", err)
		}

		plan, items, err = schedule.Materialize(assignmentOf(machine, req), maxSeq+1)
		if err != nil {
			return NewPlanServiceError("assign_plan", "failed to materialize plan", err)
		}

		if err := txPlans.Create(ctx, plan); err != nil {
			return NewPlanServiceError("assign_plan", "failed to save plan", err)
		}
		if err := txItems.CreateBatch(ctx, items); err != nil {
			return NewPlanServiceError("assign_plan", "failed to save checklist items", err)
		}
		return nil
	})
	if err != nil {
		// Error is already wrapped in the transaction
		return nil, err
	}

	s.logger.Info("maintenance plan assigned",
		"plan_id", plan.ID,
		"machine_id", machine.ID,
		"frequency", plan.Frequency,
		"item_count", len(items))

	event, err := events.NewPlanCreatedEvent(events.PlanCreatedPayload{
		PlanID:          plan.ID,
		MachineID:       machine.ID,
		StartDate:       plan.StartDate,
		ReminderEnabled: plan.ReminderEnabled,
	})
	if err != nil {
		s.logger.Error("failed to create plan-created event",
			"error", err,
			"plan_id", plan.ID)
		return nil, NewPlanServiceError("assign_plan", "failed to create event", err)
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit plan-created event",
			"error", err,
			"plan_id", plan.ID,
			"event_id", event.ID)
		return nil, NewPlanServiceError("assign_plan", "failed to emit event", err)
	}

	return &PlanDetail{Plan: plan, Items: items}, nil
}

// PreviewAssignment implements PlanService.PreviewAssignment
func (s *planServiceImpl) PreviewAssignment(
	ctx context.Context,
	req AssignmentRequest,
) (*AssignmentPreview, error) {
	machine, err := s.machineStore.GetByID(ctx, req.MachineID)
	if err != nil {
		return nil, NewPlanServiceError("preview_assignment", "failed to load machine", err)
	}

	// The sequence read runs outside a transaction here: the preview is
	// advisory and the numbers it shows may be taken by the time the
	// assignment is committed.
	maxSeq, err := s.checklistStore.MaxTaskSeq(ctx, tasknum.Prefix(machine.Name))
	if err != nil {
		return nil, NewPlanServiceError("preview_assignment", "failed to determine next task number", err)
	}

	plan, items, err := schedule.Materialize(assignmentOf(machine, req), maxSeq+1)
	if err != nil {
		return nil, NewPlanServiceError("preview_assignment", "failed to materialize plan", err)
	}

	s.logger.Debug("assignment previewed",
		"machine_id", machine.ID,
		"frequency", req.Frequency,
		"item_count", len(items))

	return &AssignmentPreview{Plan: plan, Items: items}, nil
}

// GetPlan implements PlanService.GetPlan
func (s *planServiceImpl) GetPlan(ctx context.Context, planID uuid.UUID) (*PlanDetail, error) {
	plan, err := s.planStore.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, store.ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, NewPlanServiceError("get_plan", "failed to retrieve plan", err)
	}

	items, err := s.checklistStore.ListByPlan(ctx, planID)
	if err != nil {
		return nil, NewPlanServiceError("get_plan", "failed to retrieve checklist items", err)
	}

	return &PlanDetail{Plan: plan, Items: items}, nil
}

// ListPlans implements PlanService.ListPlans
func (s *planServiceImpl) ListPlans(
	ctx context.Context,
	filter store.PlanFilter,
) ([]*domain.MaintenancePlan, error) {
	plans, err := s.planStore.List(ctx, filter)
	if err != nil {
		return nil, NewPlanServiceError("list_plans", "failed to list plans", err)
	}
	return plans, nil
}

// UpdatePlanStatus implements PlanService.UpdatePlanStatus
func (s *planServiceImpl) UpdatePlanStatus(
	ctx context.Context,
	planID uuid.UUID,
	status domain.PlanStatus,
) error {
	if !status.IsValid() {
		return NewPlanServiceError("update_plan_status", "invalid status", domain.ErrInvalidPlanStatus)
	}

	if err := s.planStore.UpdateStatus(ctx, planID, status); err != nil {
		if errors.Is(err, store.ErrPlanNotFound) {
			return ErrPlanNotFound
		}
		return NewPlanServiceError("update_plan_status", "failed to update plan status", err)
	}

	s.logger.Info("plan status updated",
		"plan_id", planID,
		"status", status)
	return nil
}

// DeletePlan implements PlanService.DeletePlan
func (s *planServiceImpl) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	if err := s.planStore.Delete(ctx, planID); err != nil {
		if errors.Is(err, store.ErrPlanNotFound) {
			return ErrPlanNotFound
		}
		return NewPlanServiceError("delete_plan", "failed to delete plan", err)
	}

	s.logger.Info("plan deleted", "plan_id", planID)
	return nil
}

// assignmentOf maps a request onto the materializer's input.
func assignmentOf(machine *domain.Machine, req AssignmentRequest) schedule.Assignment {
	return schedule.Assignment{
		Machine:              machine,
		Title:                req.Title,
		Priority:             req.Priority,
		Frequency:            req.Frequency,
		StartDate:            req.StartDate,
		WorkDescription:      req.WorkDescription,
		PartName:             req.PartName,
		Assignee:             req.Assignee,
		Requester:            req.Requester,
		TemperatureSensitive: req.TemperatureSensitive,
		ReminderEnabled:      req.ReminderEnabled,
		AttachmentRequired:   req.AttachmentRequired,
	}
}
