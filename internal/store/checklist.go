package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
)

// ItemUpdate carries the mutable fields of a checklist item status change.
// Nil evidence pointers leave the stored value untouched.
type ItemUpdate struct {
	Status       domain.ItemStatus
	Remarks      *string
	Temperature  *float64
	SoundReading *string
	Cost         *float64
	ImageURL     *string
}

// ChecklistStore defines the interface for checklist item persistence.
// Version: 1.0
type ChecklistStore interface {
	// CreateBatch saves all checklist items of a plan in one statement.
	//
	// IMPORTANT: This method MUST be run within the same transaction as
	// the owning plan's insert. Use WithTx with store.RunInTransaction;
	// outside a transaction a failure here leaves an orphaned plan.
	//
	// Returns ErrTaskNoExists if any task number is already taken.
	CreateBatch(ctx context.Context, items []*domain.ChecklistItem) error

	// GetByID retrieves a checklist item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error)

	// ListByPlan retrieves all items of a plan ordered by due date.
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]*domain.ChecklistItem, error)

	// ListDue retrieves pending or in-progress items of reminder-enabled
	// plans whose due date is on or before the given date.
	ListDue(ctx context.Context, due time.Time) ([]*domain.ChecklistItem, error)

	// Update applies a status transition and evidence fields to an item.
	// Returns ErrItemNotFound if the item does not exist.
	Update(ctx context.Context, id uuid.UUID, update ItemUpdate) (*domain.ChecklistItem, error)

	// MaxTaskSeq returns the highest numeric task-number suffix persisted
	// for the given machine prefix (matching "PREFIX-%"), or 0 when no
	// item carries that prefix. The next batch for the prefix starts at
	// the returned value + 1.
	//
	// Callers allocating a batch must invoke this inside the same
	// transaction as CreateBatch; outside a transaction two concurrent
	// assignments for one machine can read the same maximum and collide.
	MaxTaskSeq(ctx context.Context, prefix string) (int, error)

	// WithTx returns a new ChecklistStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ChecklistStore
}
