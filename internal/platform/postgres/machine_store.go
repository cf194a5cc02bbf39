package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/platform/logger"
	"github.com/marchukov/upkeep-api/internal/store"
)

// PostgresMachineStore implements the store.MachineStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMachineStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMachineStore creates a new PostgreSQL implementation of the
// MachineStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresMachineStore(db store.DBTX, logger *slog.Logger) *PostgresMachineStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMachineStore{
		db:     db,
		logger: logger.With(slog.String("component", "machine_store")),
	}
}

// Ensure PostgresMachineStore implements store.MachineStore interface
var _ store.MachineStore = (*PostgresMachineStore)(nil)

// WithTx implements store.MachineStore.WithTx
func (s *PostgresMachineStore) WithTx(tx *sql.Tx) store.MachineStore {
	return &PostgresMachineStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.MachineStore.Create
// It saves a new machine to the database, handling domain validation.
func (s *PostgresMachineStore) Create(ctx context.Context, machine *domain.Machine) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := machine.Validate(); err != nil {
		log.Warn("machine validation failed during create",
			slog.String("error", err.Error()),
			slog.String("machine_id", machine.ID.String()))
		return err
	}

	query := `
		INSERT INTO machines (id, name, department, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		machine.ID,
		machine.Name,
		machine.Department,
		machine.Location,
		machine.CreatedAt,
		machine.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create machine",
			slog.String("error", err.Error()),
			slog.String("machine_id", machine.ID.String()))
		return MapError(err)
	}

	log.Info("machine created successfully",
		slog.String("machine_id", machine.ID.String()),
		slog.String("name", machine.Name))
	return nil
}

// GetByID implements store.MachineStore.GetByID
// Returns store.ErrMachineNotFound if the machine does not exist.
func (s *PostgresMachineStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Machine, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, department, location, created_at, updated_at
		FROM machines
		WHERE id = $1
	`

	var machine domain.Machine
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&machine.ID,
		&machine.Name,
		&machine.Department,
		&machine.Location,
		&machine.CreatedAt,
		&machine.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("machine not found", slog.String("machine_id", id.String()))
			return nil, store.ErrMachineNotFound
		}
		log.Error("failed to get machine by ID",
			slog.String("error", err.Error()),
			slog.String("machine_id", id.String()))
		return nil, MapError(err)
	}

	return &machine, nil
}

// List implements store.MachineStore.List
func (s *PostgresMachineStore) List(ctx context.Context, limit, offset int) ([]*domain.Machine, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, name, department, location, created_at, updated_at
		FROM machines
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		log.Error("failed to list machines", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer rows.Close()

	machines := []*domain.Machine{}
	for rows.Next() {
		var machine domain.Machine
		if err := rows.Scan(
			&machine.ID,
			&machine.Name,
			&machine.Department,
			&machine.Location,
			&machine.CreatedAt,
			&machine.UpdatedAt,
		); err != nil {
			log.Error("failed to scan machine row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		machines = append(machines, &machine)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating machine rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return machines, nil
}

// Delete implements store.MachineStore.Delete
// Returns store.ErrMachineNotFound if the machine does not exist. Plans
// and checklist items hanging off the machine go with it via CASCADE.
func (s *PostgresMachineStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM machines WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete machine",
			slog.String("error", err.Error()),
			slog.String("machine_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("machine_id", id.String()))
		return MapError(err)
	}

	if rowsAffected == 0 {
		return store.ErrMachineNotFound
	}

	log.Info("machine deleted successfully", slog.String("machine_id", id.String()))
	return nil
}
