package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrMachineNotFound, ErrPlanNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a checklist item with an existing task number).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or references a row that does not exist. Check the
	// wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrMachineNotFound indicates that the requested machine does not exist in the store.
	ErrMachineNotFound = fmt.Errorf("%w: machine", ErrNotFound)

	// ErrPlanNotFound indicates that the requested maintenance plan does not exist in the store.
	ErrPlanNotFound = fmt.Errorf("%w: maintenance plan", ErrNotFound)

	// ErrItemNotFound indicates that the requested checklist item does not exist in the store.
	ErrItemNotFound = fmt.Errorf("%w: checklist item", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrTaskNoExists indicates that a checklist item with the given task
	// number already exists. Seen when two assignments race on the same
	// machine prefix outside a shared transaction.
	ErrTaskNoExists = fmt.Errorf("%w: task number", ErrDuplicate)
)
