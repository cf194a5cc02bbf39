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

// ItemUpdateRequest carries a status transition and the evidence fields
// recorded while performing the work. Nil pointers leave the stored
// values untouched.
type ItemUpdateRequest struct {
	Status       domain.ItemStatus
	Remarks      *string
	Temperature  *float64
	SoundReading *string
	Cost         *float64
	ImageURL     *string
}

// ChecklistService provides checklist item operations.
type ChecklistService interface {
	// GetItem retrieves a checklist item by its ID.
	GetItem(ctx context.Context, itemID uuid.UUID) (*domain.ChecklistItem, error)

	// ListItems retrieves all items of a plan ordered by due date.
	ListItems(ctx context.Context, planID uuid.UUID) ([]*domain.ChecklistItem, error)

	// UpdateItem applies a status transition and evidence fields to an
	// item and returns the updated record. Completing an item of an
	// attachment-required plan without an image fails with
	// ErrAttachmentMissing.
	UpdateItem(ctx context.Context, itemID uuid.UUID, req ItemUpdateRequest) (*domain.ChecklistItem, error)
}

// checklistServiceImpl implements the ChecklistService interface
type checklistServiceImpl struct {
	checklistStore store.ChecklistStore
	planStore      store.PlanStore
	logger         *slog.Logger
}

// NewChecklistService creates a new ChecklistService.
func NewChecklistService(
	checklistStore store.ChecklistStore,
	planStore store.PlanStore,
	logger *slog.Logger,
) (ChecklistService, error) {
	if checklistStore == nil {
		return nil, errors.New("checklistStore cannot be nil")
	}
	if planStore == nil {
		return nil, errors.New("planStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &checklistServiceImpl{
		checklistStore: checklistStore,
		planStore:      planStore,
		logger:         logger.With(slog.String("component", "checklist_service")),
	}, nil
}

// GetItem implements ChecklistService.GetItem
func (s *checklistServiceImpl) GetItem(
	ctx context.Context,
	itemID uuid.UUID,
) (*domain.ChecklistItem, error) {
	item, err := s.checklistStore.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve checklist item: %w", err)
	}
	return item, nil
}

// ListItems implements ChecklistService.ListItems
func (s *checklistServiceImpl) ListItems(
	ctx context.Context,
	planID uuid.UUID,
) ([]*domain.ChecklistItem, error) {
	if _, err := s.planStore.GetByID(ctx, planID); err != nil {
		if errors.Is(err, store.ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to retrieve plan: %w", err)
	}

	items, err := s.checklistStore.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}
	return items, nil
}

// UpdateItem implements ChecklistService.UpdateItem
func (s *checklistServiceImpl) UpdateItem(
	ctx context.Context,
	itemID uuid.UUID,
	req ItemUpdateRequest,
) (*domain.ChecklistItem, error) {
	if !req.Status.IsValid() {
		return nil, domain.ErrInvalidItemStatus
	}

	item, err := s.checklistStore.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve checklist item: %w", err)
	}

	if req.Status == domain.ItemStatusCompleted || req.Status == domain.ItemStatusApproved {
		if err := s.checkAttachment(ctx, item, req); err != nil {
			return nil, err
		}
	}

	updated, err := s.checklistStore.Update(ctx, itemID, store.ItemUpdate{
		Status:       req.Status,
		Remarks:      req.Remarks,
		Temperature:  req.Temperature,
		SoundReading: req.SoundReading,
		Cost:         req.Cost,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update checklist item: %w", err)
	}

	s.logger.Info("checklist item updated",
		"item_id", itemID,
		"task_no", updated.TaskNo,
		"status", updated.Status)
	return updated, nil
}

// checkAttachment enforces the attachment rule on completing transitions:
// when the owning plan requires an attachment, either the stored item or
// the update itself must carry an image URL.
func (s *checklistServiceImpl) checkAttachment(
	ctx context.Context,
	item *domain.ChecklistItem,
	req ItemUpdateRequest,
) error {
	plan, err := s.planStore.GetByID(ctx, item.PlanID)
	if err != nil {
		return fmt.Errorf("failed to retrieve owning plan: %w", err)
	}

	if !plan.AttachmentRequired {
		return nil
	}

	hasStored := item.ImageURL != nil && *item.ImageURL != ""
	hasNew := req.ImageURL != nil && *req.ImageURL != ""
	if !hasStored && !hasNew {
		s.logger.Warn("completion rejected, attachment missing",
			"item_id", item.ID,
			"task_no", item.TaskNo,
			"plan_id", plan.ID)
		return ErrAttachmentMissing
	}
	return nil
}
