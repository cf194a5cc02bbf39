package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
)

// MachineStore defines the interface for machine data persistence.
// Version: 1.0
type MachineStore interface {
	// Create saves a new machine to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Machine if data is invalid.
	Create(ctx context.Context, machine *domain.Machine) error

	// GetByID retrieves a machine by its unique ID.
	// Returns ErrMachineNotFound if the machine does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Machine, error)

	// List retrieves machines ordered by name.
	// Can limit the number of results and paginate through offset.
	List(ctx context.Context, limit, offset int) ([]*domain.Machine, error)

	// Delete removes a machine from the store by its ID.
	// Returns ErrMachineNotFound if the machine does not exist.
	// Plans assigned to the machine (and their checklist items) are
	// removed by ON DELETE CASCADE at the schema level.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new MachineStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) MachineStore
}
