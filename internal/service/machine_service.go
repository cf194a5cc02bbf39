package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/store"
)

// MachineService provides machine registry operations.
type MachineService interface {
	// CreateMachine registers a new machine.
	CreateMachine(ctx context.Context, name, department, location string) (*domain.Machine, error)

	// GetMachine retrieves a machine by its ID.
	GetMachine(ctx context.Context, machineID uuid.UUID) (*domain.Machine, error)

	// ListMachines retrieves machines ordered by name.
	ListMachines(ctx context.Context, limit, offset int) ([]*domain.Machine, error)

	// DeleteMachine removes a machine and, via schema-level cascade, every
	// plan and checklist item assigned to it.
	DeleteMachine(ctx context.Context, machineID uuid.UUID) error
}

// machineServiceImpl implements the MachineService interface
type machineServiceImpl struct {
	machineStore store.MachineStore
	logger       *slog.Logger
}

// NewMachineService creates a new MachineService.
func NewMachineService(machineStore store.MachineStore, logger *slog.Logger) (MachineService, error) {
	if machineStore == nil {
		return nil, errors.New("machineStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &machineServiceImpl{
		machineStore: machineStore,
		logger:       logger.With(slog.String("component", "machine_service")),
	}, nil
}

// CreateMachine implements MachineService.CreateMachine
func (s *machineServiceImpl) CreateMachine(
	ctx context.Context,
	name, department, location string,
) (*domain.Machine, error) {
	machine, err := domain.NewMachine(name, department, location)
	if err != nil {
		s.logger.Warn("invalid machine data", "error", err, "name", name)
		return nil, err
	}

	if err := s.machineStore.Create(ctx, machine); err != nil {
		s.logger.Error("failed to create machine",
			"error", err,
			"machine_id", machine.ID)
		return nil, fmt.Errorf("failed to create machine: %w", err)
	}

	s.logger.Info("machine registered",
		"machine_id", machine.ID,
		"name", machine.Name)
	return machine, nil
}

// GetMachine implements MachineService.GetMachine
func (s *machineServiceImpl) GetMachine(
	ctx context.Context,
	machineID uuid.UUID,
) (*domain.Machine, error) {
	machine, err := s.machineStore.GetByID(ctx, machineID)
	if err != nil {
		if errors.Is(err, store.ErrMachineNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, fmt.Errorf("failed to retrieve machine: %w", err)
	}
	return machine, nil
}

// ListMachines implements MachineService.ListMachines
func (s *machineServiceImpl) ListMachines(
	ctx context.Context,
	limit, offset int,
) ([]*domain.Machine, error) {
	machines, err := s.machineStore.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return machines, nil
}

// DeleteMachine implements MachineService.DeleteMachine
func (s *machineServiceImpl) DeleteMachine(ctx context.Context, machineID uuid.UUID) error {
	if err := s.machineStore.Delete(ctx, machineID); err != nil {
		if errors.Is(err, store.ErrMachineNotFound) {
			return ErrMachineNotFound
		}
		return fmt.Errorf("failed to delete machine: %w", err)
	}

	s.logger.Info("machine deleted", "machine_id", machineID)
	return nil
}
