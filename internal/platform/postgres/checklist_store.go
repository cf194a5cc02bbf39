package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/platform/logger"
	"github.com/marchukov/upkeep-api/internal/store"
)

// PostgresChecklistStore implements the store.ChecklistStore interface
// using a PostgreSQL database as the storage backend.
type PostgresChecklistStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChecklistStore creates a new PostgreSQL implementation of the
// ChecklistStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresChecklistStore(db store.DBTX, logger *slog.Logger) *PostgresChecklistStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresChecklistStore{
		db:     db,
		logger: logger.With(slog.String("component", "checklist_store")),
	}
}

// Ensure PostgresChecklistStore implements store.ChecklistStore interface
var _ store.ChecklistStore = (*PostgresChecklistStore)(nil)

// WithTx implements store.ChecklistStore.WithTx
func (s *PostgresChecklistStore) WithTx(tx *sql.Tx) store.ChecklistStore {
	return &PostgresChecklistStore{
		db:     tx,
		logger: s.logger,
	}
}

const itemColumns = `id, plan_id, task_no, due_date, description, department, status,
	remarks, temperature, sound_reading, cost, image_url, created_at, updated_at`

// CreateBatch implements store.ChecklistStore.CreateBatch
// All items of a plan are inserted with a single multi-row statement.
// Returns store.ErrTaskNoExists if any task number is already taken.
func (s *PostgresChecklistStore) CreateBatch(ctx context.Context, items []*domain.ChecklistItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(items) == 0 {
		return nil
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn("checklist item validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
			return err
		}
	}

	query := `
		INSERT INTO checklist_items (` + itemColumns + `)
		VALUES `
	args := make([]interface{}, 0, len(items)*14)
	for i, item := range items {
		if i > 0 {
			query += ", "
		}
		query += "("
		for col := 0; col < 14; col++ {
			if col > 0 {
				query += ", "
			}
			query += "$" + strconv.Itoa(i*14+col+1)
		}
		query += ")"

		args = append(args,
			item.ID,
			item.PlanID,
			item.TaskNo,
			item.DueDate,
			item.Description,
			item.Department,
			item.Status,
			item.Remarks,
			item.Temperature,
			item.SoundReading,
			item.Cost,
			item.ImageURL,
			item.CreatedAt,
			item.UpdatedAt,
		)
	}

	_, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("task number collision during batch create",
				slog.String("error", err.Error()),
				slog.String("plan_id", items[0].PlanID.String()))
			return fmt.Errorf("%w: %v", store.ErrTaskNoExists, err)
		}

		log.Error("failed to create checklist item batch",
			slog.String("error", err.Error()),
			slog.String("plan_id", items[0].PlanID.String()),
			slog.Int("item_count", len(items)))
		return MapError(err)
	}

	log.Info("checklist item batch created",
		slog.String("plan_id", items[0].PlanID.String()),
		slog.Int("item_count", len(items)))
	return nil
}

// GetByID implements store.ChecklistStore.GetByID
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresChecklistStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + itemColumns + ` FROM checklist_items WHERE id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("checklist item not found", slog.String("item_id", id.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get checklist item by ID",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, MapError(err)
	}

	return item, nil
}

// ListByPlan implements store.ChecklistStore.ListByPlan
func (s *PostgresChecklistStore) ListByPlan(ctx context.Context, planID uuid.UUID) ([]*domain.ChecklistItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + itemColumns + `
		FROM checklist_items
		WHERE plan_id = $1
		ORDER BY due_date ASC, task_no ASC
	`

	return s.queryItems(ctx, log, query, planID)
}

// ListDue implements store.ChecklistStore.ListDue
// Only items of reminder-enabled plans are reported.
func (s *PostgresChecklistStore) ListDue(ctx context.Context, due time.Time) ([]*domain.ChecklistItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ci.id, ci.plan_id, ci.task_no, ci.due_date, ci.description, ci.department, ci.status,
			ci.remarks, ci.temperature, ci.sound_reading, ci.cost, ci.image_url, ci.created_at, ci.updated_at
		FROM checklist_items ci
		JOIN maintenance_plans p ON p.id = ci.plan_id
		WHERE p.reminder_enabled
		  AND ci.status IN ('pending', 'in_progress')
		  AND ci.due_date <= $1
		ORDER BY ci.due_date ASC, ci.task_no ASC
	`

	return s.queryItems(ctx, log, query, due)
}

// Update implements store.ChecklistStore.Update
// Nil evidence pointers preserve the stored values (COALESCE on the
// database side). Returns the updated row.
func (s *PostgresChecklistStore) Update(ctx context.Context, id uuid.UUID, update store.ItemUpdate) (*domain.ChecklistItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !update.Status.IsValid() {
		return nil, domain.ErrInvalidItemStatus
	}

	query := `
		UPDATE checklist_items
		SET status = $1,
			remarks = COALESCE($2, remarks),
			temperature = COALESCE($3, temperature),
			sound_reading = COALESCE($4, sound_reading),
			cost = COALESCE($5, cost),
			image_url = COALESCE($6, image_url),
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + itemColumns

	item, err := scanItem(s.db.QueryRowContext(ctx, query,
		update.Status,
		update.Remarks,
		update.Temperature,
		update.SoundReading,
		update.Cost,
		update.ImageURL,
		id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("checklist item not found for update", slog.String("item_id", id.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to update checklist item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("checklist item updated",
		slog.String("item_id", id.String()),
		slog.String("status", string(update.Status)))
	return item, nil
}

// escapeLikePrefix escapes LIKE metacharacters in a task number prefix
// so the prefix only ever matches itself. Machine names can put "%" or
// "_" into the derived prefix, and unescaped those would match foreign
// prefixes and inflate the sequence.
func escapeLikePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix)
}

// MaxTaskSeq implements store.ChecklistStore.MaxTaskSeq
// The maximum is taken over the numeric suffix, not the lexicographic
// order of the task_no column, so "HP-99" cannot shadow "HP-100".
func (s *PostgresChecklistStore) MaxTaskSeq(ctx context.Context, prefix string) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COALESCE(MAX((substring(task_no from '[0-9]+$'))::int), 0)
		FROM checklist_items
		WHERE task_no LIKE $1 || '-%'
	`

	var max int
	if err := s.db.QueryRowContext(ctx, query, escapeLikePrefix(prefix)).Scan(&max); err != nil {
		log.Error("failed to query max task sequence",
			slog.String("error", err.Error()),
			slog.String("prefix", prefix))
		return 0, MapError(err)
	}

	return max, nil
}

// queryItems runs an item query and scans all rows.
func (s *PostgresChecklistStore) queryItems(
	ctx context.Context,
	log *slog.Logger,
	query string,
	args ...interface{},
) ([]*domain.ChecklistItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query checklist items", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer rows.Close()

	items := []*domain.ChecklistItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan checklist item row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating checklist item rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return items, nil
}

// scanItem reads one checklist item row.
func scanItem(row scanner) (*domain.ChecklistItem, error) {
	var item domain.ChecklistItem

	err := row.Scan(
		&item.ID,
		&item.PlanID,
		&item.TaskNo,
		&item.DueDate,
		&item.Description,
		&item.Department,
		&item.Status,
		&item.Remarks,
		&item.Temperature,
		&item.SoundReading,
		&item.Cost,
		&item.ImageURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &item, nil
}
