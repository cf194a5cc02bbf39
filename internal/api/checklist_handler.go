package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/marchukov/upkeep-api/internal/api/shared"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/service"
)

// UpdateItemRequest represents the request body for a checklist item
// status change with optional evidence fields
type UpdateItemRequest struct {
	Status       string   `json:"status"        validate:"required,oneof=pending in_progress completed approved rejected"`
	Remarks      *string  `json:"remarks"`
	Temperature  *float64 `json:"temperature"`
	SoundReading *string  `json:"sound_reading"`
	Cost         *float64 `json:"cost"          validate:"omitempty,gte=0"`
	ImageURL     *string  `json:"image_url"     validate:"omitempty,url"`
}

// ChecklistItemResponse represents the response data for a checklist item
type ChecklistItemResponse struct {
	ID           string    `json:"id"`
	PlanID       string    `json:"plan_id"`
	TaskNo       string    `json:"task_no"`
	DueDate      string    `json:"due_date"`
	Description  string    `json:"description"`
	Department   string    `json:"department"`
	Status       string    `json:"status"`
	Remarks      *string   `json:"remarks,omitempty"`
	Temperature  *float64  `json:"temperature,omitempty"`
	SoundReading *string   `json:"sound_reading,omitempty"`
	Cost         *float64  `json:"cost,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChecklistHandler handles checklist item HTTP requests
type ChecklistHandler struct {
	checklistService service.ChecklistService
	validator        *validator.Validate
}

// NewChecklistHandler creates a new ChecklistHandler
func NewChecklistHandler(checklistService service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{
		checklistService: checklistService,
		validator:        validator.New(),
	}
}

// GetItem handles GET /api/items/{id} requests
func (h *ChecklistHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.checklistService.GetItem(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve checklist item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// ListPlanItems handles GET /api/plans/{id}/items requests
func (h *ChecklistHandler) ListPlanItems(w http.ResponseWriter, r *http.Request) {
	planID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	items, err := h.checklistService.ListItems(r.Context(), planID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list checklist items")
		return
	}

	responses := make([]ChecklistItemResponse, 0, len(items))
	for _, it := range items {
		responses = append(responses, itemToResponse(it))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// UpdateItem handles PATCH /api/items/{id} requests
func (h *ChecklistHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	item, err := h.checklistService.UpdateItem(r.Context(), id, service.ItemUpdateRequest{
		Status:       domain.ItemStatus(req.Status),
		Remarks:      req.Remarks,
		Temperature:  req.Temperature,
		SoundReading: req.SoundReading,
		Cost:         req.Cost,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update checklist item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// itemToResponse converts a domain.ChecklistItem to a ChecklistItemResponse
func itemToResponse(it *domain.ChecklistItem) ChecklistItemResponse {
	return ChecklistItemResponse{
		ID:           it.ID.String(),
		PlanID:       it.PlanID.String(),
		TaskNo:       it.TaskNo,
		DueDate:      it.DueDate.Format(startDateLayout),
		Description:  it.Description,
		Department:   it.Department,
		Status:       string(it.Status),
		Remarks:      it.Remarks,
		Temperature:  it.Temperature,
		SoundReading: it.SoundReading,
		Cost:         it.Cost,
		ImageURL:     it.ImageURL,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}
