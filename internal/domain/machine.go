package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Machine-specific validation errors
var (
	// ErrMachineIDEmpty is returned when a machine ID is empty or nil.
	ErrMachineIDEmpty = errors.New("machine ID cannot be empty")

	// ErrMachineNameEmpty is returned when a machine name is empty.
	ErrMachineNameEmpty = errors.New("machine name cannot be empty")
)

// Machine represents a physical machine that maintenance plans are
// assigned to. The machine's name also drives the task-number prefix of
// its checklist items (see the tasknum package).
type Machine struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Location   string    `json:"location"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewMachine creates a new Machine with the given name, department and
// location. It generates a new UUID for the machine ID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewMachine(name, department, location string) (*Machine, error) {
	machine := &Machine{
		ID:         uuid.New(),
		Name:       name,
		Department: department,
		Location:   location,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := machine.Validate(); err != nil {
		return nil, err
	}

	return machine, nil
}

// Validate checks if the Machine has valid data.
// Returns an error if any field fails validation.
func (m *Machine) Validate() error {
	if m.ID == uuid.Nil {
		return ErrMachineIDEmpty
	}

	if m.Name == "" {
		return ErrMachineNameEmpty
	}

	return nil
}
