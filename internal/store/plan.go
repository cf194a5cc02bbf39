package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
)

// PlanFilter narrows a plan listing. Zero values mean "no filter".
type PlanFilter struct {
	MachineID uuid.UUID
	Status    domain.PlanStatus
	Limit     int
	Offset    int
}

// PlanStore defines the interface for maintenance plan persistence.
// Version: 1.0
type PlanStore interface {
	// Create saves a new maintenance plan to the store.
	// It handles domain validation internally.
	// Returns ErrInvalidEntity if the referenced machine does not exist.
	//
	// IMPORTANT: plan creation is always paired with a checklist item
	// batch insert. Use WithTx and store.RunInTransaction so the plan and
	// its items are persisted atomically; a plan without items is an
	// inconsistent record.
	Create(ctx context.Context, plan *domain.MaintenancePlan) error

	// GetByID retrieves a plan by its unique ID.
	// Returns ErrPlanNotFound if the plan does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenancePlan, error)

	// List retrieves plans matching the filter, newest first.
	List(ctx context.Context, filter PlanFilter) ([]*domain.MaintenancePlan, error)

	// UpdateStatus updates the lifecycle status of an existing plan.
	// Returns ErrPlanNotFound if the plan does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PlanStatus) error

	// Delete removes a plan from the store by its ID.
	// Returns ErrPlanNotFound if the plan does not exist.
	//
	// This method relies on database-level CASCADE DELETE to remove the
	// plan's checklist items; the schema declares ON DELETE CASCADE on
	// checklist_items.plan_id.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new PlanStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) PlanStore
}
