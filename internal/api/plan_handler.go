package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/api/shared"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/service"
	"github.com/marchukov/upkeep-api/internal/store"
)

// startDateLayout is the wire format of plan start dates.
const startDateLayout = "2006-01-02"

// AssignPlanRequest represents the request body for assigning a
// maintenance plan to a machine
type AssignPlanRequest struct {
	MachineID            string `json:"machine_id"            validate:"required,uuid"`
	Title                string `json:"title"                 validate:"required,min=1"`
	Priority             string `json:"priority"              validate:"required,oneof=low medium high"`
	Frequency            string `json:"frequency"`
	StartDate            string `json:"start_date"            validate:"required"`
	WorkDescription      string `json:"work_description"`
	PartName             string `json:"part_name"`
	Assignee             string `json:"assignee"`
	Requester            string `json:"requester"`
	TemperatureSensitive bool   `json:"temperature_sensitive"`
	ReminderEnabled      bool   `json:"reminder_enabled"`
	AttachmentRequired   bool   `json:"attachment_required"`
}

// UpdatePlanStatusRequest represents the request body for a plan status change
type UpdatePlanStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed cancelled"`
}

// PlanResponse represents the response data for a maintenance plan
type PlanResponse struct {
	ID                   string    `json:"id"`
	MachineID            string    `json:"machine_id"`
	Title                string    `json:"title"`
	Priority             string    `json:"priority"`
	Status               string    `json:"status"`
	Frequency            string    `json:"frequency"`
	StartDate            string    `json:"start_date"`
	EndDate              string    `json:"end_date"`
	Assignee             string    `json:"assignee"`
	Requester            string    `json:"requester"`
	TemperatureSensitive bool      `json:"temperature_sensitive"`
	ReminderEnabled      bool      `json:"reminder_enabled"`
	AttachmentRequired   bool      `json:"attachment_required"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// PlanDetailResponse bundles a plan with its checklist items
type PlanDetailResponse struct {
	Plan  PlanResponse            `json:"plan"`
	Items []ChecklistItemResponse `json:"items"`
}

// PlanHandler handles maintenance plan HTTP requests
type PlanHandler struct {
	planService service.PlanService
	validator   *validator.Validate
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		validator:   validator.New(),
	}
}

// AssignPlan handles POST /api/plans requests
func (h *PlanHandler) AssignPlan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAssignment(w, r)
	if !ok {
		return
	}

	detail, err := h.planService.AssignPlan(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to assign maintenance plan")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, planDetailToResponse(detail))
}

// PreviewPlan handles POST /api/plans/preview requests
func (h *PlanHandler) PreviewPlan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAssignment(w, r)
	if !ok {
		return
	}

	preview, err := h.planService.PreviewAssignment(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to preview maintenance plan")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, planDetailToResponse(&service.PlanDetail{
		Plan:  preview.Plan,
		Items: preview.Items,
	}))
}

// GetPlan handles GET /api/plans/{id} requests
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	detail, err := h.planService.GetPlan(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve maintenance plan")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, planDetailToResponse(detail))
}

// ListPlans handles GET /api/plans requests
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	filter := store.PlanFilter{
		Limit:  getQueryInt(r, "limit", 0),
		Offset: getQueryInt(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("machine_id"); raw != "" {
		machineID, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid machine_id filter")
			return
		}
		filter.MachineID = machineID
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.PlanStatus(raw)
		if !status.IsValid() {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter.Status = status
	}

	plans, err := h.planService.ListPlans(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list maintenance plans")
		return
	}

	responses := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		responses = append(responses, planToResponse(p))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// UpdatePlanStatus handles PATCH /api/plans/{id}/status requests
func (h *PlanHandler) UpdatePlanStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdatePlanStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.planService.UpdatePlanStatus(r.Context(), id, domain.PlanStatus(req.Status)); err != nil {
		HandleAPIError(w, r, err, "Failed to update plan status")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePlan handles DELETE /api/plans/{id} requests
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.planService.DeletePlan(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete maintenance plan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeAssignment parses and validates an assignment request body,
// writing the error response itself when the body is unusable.
func (h *PlanHandler) decodeAssignment(
	w http.ResponseWriter,
	r *http.Request,
) (service.AssignmentRequest, bool) {
	var req AssignPlanRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return service.AssignmentRequest{}, false
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return service.AssignmentRequest{}, false
	}

	frequency := domain.Frequency(req.Frequency)
	if !frequency.IsValid() {
		HandleAPIError(w, r, domain.ErrInvalidFrequency, "")
		return service.AssignmentRequest{}, false
	}

	startDate, err := time.Parse(startDateLayout, req.StartDate)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
		return service.AssignmentRequest{}, false
	}

	// validated as a UUID above
	machineID := uuid.MustParse(req.MachineID)

	return service.AssignmentRequest{
		MachineID:            machineID,
		Title:                req.Title,
		Priority:             domain.Priority(req.Priority),
		Frequency:            frequency,
		StartDate:            startDate,
		WorkDescription:      req.WorkDescription,
		PartName:             req.PartName,
		Assignee:             req.Assignee,
		Requester:            req.Requester,
		TemperatureSensitive: req.TemperatureSensitive,
		ReminderEnabled:      req.ReminderEnabled,
		AttachmentRequired:   req.AttachmentRequired,
	}, true
}

// planToResponse converts a domain.MaintenancePlan to a PlanResponse
func planToResponse(p *domain.MaintenancePlan) PlanResponse {
	return PlanResponse{
		ID:                   p.ID.String(),
		MachineID:            p.MachineID.String(),
		Title:                p.Title,
		Priority:             string(p.Priority),
		Status:               string(p.Status),
		Frequency:            string(p.Frequency),
		StartDate:            p.StartDate.Format(startDateLayout),
		EndDate:              p.EndDate.Format(startDateLayout),
		Assignee:             p.Assignee,
		Requester:            p.Requester,
		TemperatureSensitive: p.TemperatureSensitive,
		ReminderEnabled:      p.ReminderEnabled,
		AttachmentRequired:   p.AttachmentRequired,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// planDetailToResponse converts a service.PlanDetail to a PlanDetailResponse
func planDetailToResponse(detail *service.PlanDetail) PlanDetailResponse {
	items := make([]ChecklistItemResponse, 0, len(detail.Items))
	for _, it := range detail.Items {
		items = append(items, itemToResponse(it))
	}
	return PlanDetailResponse{
		Plan:  planToResponse(detail.Plan),
		Items: items,
	}
}
