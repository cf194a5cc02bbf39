package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/platform/logger"
	"github.com/marchukov/upkeep-api/internal/store"
)

// PostgresPlanStore implements the store.PlanStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPlanStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPlanStore creates a new PostgreSQL implementation of the
// PlanStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresPlanStore(db store.DBTX, logger *slog.Logger) *PostgresPlanStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPlanStore{
		db:     db,
		logger: logger.With(slog.String("component", "plan_store")),
	}
}

// Ensure PostgresPlanStore implements store.PlanStore interface
var _ store.PlanStore = (*PostgresPlanStore)(nil)

// WithTx implements store.PlanStore.WithTx
func (s *PostgresPlanStore) WithTx(tx *sql.Tx) store.PlanStore {
	return &PostgresPlanStore{
		db:     tx,
		logger: s.logger,
	}
}

const planColumns = `id, machine_id, title, priority, status, frequency,
	start_date, end_date, assignee, requester,
	temperature_sensitive, reminder_enabled, attachment_required,
	created_at, updated_at`

// Create implements store.PlanStore.Create
// Returns store.ErrInvalidEntity if the referenced machine does not exist
// (foreign key violation).
func (s *PostgresPlanStore) Create(ctx context.Context, plan *domain.MaintenancePlan) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := plan.Validate(); err != nil {
		log.Warn("plan validation failed during create",
			slog.String("error", err.Error()),
			slog.String("plan_id", plan.ID.String()))
		return err
	}

	query := `
		INSERT INTO maintenance_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		plan.ID,
		plan.MachineID,
		plan.Title,
		plan.Priority,
		plan.Status,
		nullableFrequency(plan.Frequency),
		plan.StartDate,
		plan.EndDate,
		plan.Assignee,
		plan.Requester,
		plan.TemperatureSensitive,
		plan.ReminderEnabled,
		plan.AttachmentRequired,
		plan.CreatedAt,
		plan.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during plan creation",
				slog.String("error", err.Error()),
				slog.String("plan_id", plan.ID.String()),
				slog.String("machine_id", plan.MachineID.String()))
			return fmt.Errorf("%w: machine with ID %s not found",
				store.ErrInvalidEntity, plan.MachineID)
		}

		log.Error("failed to create plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", plan.ID.String()))
		return MapError(err)
	}

	log.Info("plan created successfully",
		slog.String("plan_id", plan.ID.String()),
		slog.String("machine_id", plan.MachineID.String()),
		slog.String("frequency", string(plan.Frequency)))
	return nil
}

// GetByID implements store.PlanStore.GetByID
// Returns store.ErrPlanNotFound if the plan does not exist.
func (s *PostgresPlanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenancePlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + planColumns + ` FROM maintenance_plans WHERE id = $1`

	plan, err := scanPlan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("plan not found", slog.String("plan_id", id.String()))
			return nil, store.ErrPlanNotFound
		}
		log.Error("failed to get plan by ID",
			slog.String("error", err.Error()),
			slog.String("plan_id", id.String()))
		return nil, MapError(err)
	}

	return plan, nil
}

// List implements store.PlanStore.List
// Filters are combined with AND; zero values are skipped.
func (s *PostgresPlanStore) List(ctx context.Context, filter store.PlanFilter) ([]*domain.MaintenancePlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var conditions []string
	var args []interface{}

	if filter.MachineID != uuid.Nil {
		args = append(args, filter.MachineID)
		conditions = append(conditions, "machine_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + planColumns + ` FROM maintenance_plans`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit)
	query += " LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list plans", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer rows.Close()

	plans := []*domain.MaintenancePlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			log.Error("failed to scan plan row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating plan rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return plans, nil
}

// UpdateStatus implements store.PlanStore.UpdateStatus
// Returns store.ErrPlanNotFound if the plan does not exist.
func (s *PostgresPlanStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PlanStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !status.IsValid() {
		return domain.ErrInvalidPlanStatus
	}

	query := `
		UPDATE maintenance_plans
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		log.Error("failed to update plan status",
			slog.String("error", err.Error()),
			slog.String("plan_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rowsAffected == 0 {
		return store.ErrPlanNotFound
	}

	log.Info("plan status updated",
		slog.String("plan_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// Delete implements store.PlanStore.Delete
// Returns store.ErrPlanNotFound if the plan does not exist. Checklist
// items are removed by ON DELETE CASCADE.
func (s *PostgresPlanStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM maintenance_plans WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rowsAffected == 0 {
		return store.ErrPlanNotFound
	}

	log.Info("plan deleted successfully", slog.String("plan_id", id.String()))
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

// scanPlan reads one plan row. The frequency column is NULL for
// single-occurrence plans and maps to domain.FrequencySingle.
func scanPlan(row scanner) (*domain.MaintenancePlan, error) {
	var plan domain.MaintenancePlan
	var frequency sql.NullString

	err := row.Scan(
		&plan.ID,
		&plan.MachineID,
		&plan.Title,
		&plan.Priority,
		&plan.Status,
		&frequency,
		&plan.StartDate,
		&plan.EndDate,
		&plan.Assignee,
		&plan.Requester,
		&plan.TemperatureSensitive,
		&plan.ReminderEnabled,
		&plan.AttachmentRequired,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if frequency.Valid {
		plan.Frequency = domain.Frequency(frequency.String)
	}

	return &plan, nil
}

// nullableFrequency maps domain.FrequencySingle to a NULL column value.
func nullableFrequency(f domain.Frequency) sql.NullString {
	if f == domain.FrequencySingle {
		return sql.NullString{}
	}
	return sql.NullString{String: string(f), Valid: true}
}
