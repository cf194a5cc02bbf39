package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/marchukov/upkeep-api/internal/api/shared"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/service"
)

// CreateMachineRequest represents the request body for registering a machine
type CreateMachineRequest struct {
	Name       string `json:"name"       validate:"required,min=1"`
	Department string `json:"department"`
	Location   string `json:"location"`
}

// MachineResponse represents the response data for a machine
type MachineResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Location   string    `json:"location"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MachineHandler handles machine-related HTTP requests
type MachineHandler struct {
	machineService service.MachineService
	validator      *validator.Validate
}

// NewMachineHandler creates a new MachineHandler
func NewMachineHandler(machineService service.MachineService) *MachineHandler {
	return &MachineHandler{
		machineService: machineService,
		validator:      validator.New(),
	}
}

// CreateMachine handles POST /api/machines requests
func (h *MachineHandler) CreateMachine(w http.ResponseWriter, r *http.Request) {
	var req CreateMachineRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	machine, err := h.machineService.CreateMachine(r.Context(), req.Name, req.Department, req.Location)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register machine")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, machineToResponse(machine))
}

// GetMachine handles GET /api/machines/{id} requests
func (h *MachineHandler) GetMachine(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	machine, err := h.machineService.GetMachine(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve machine")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, machineToResponse(machine))
}

// ListMachines handles GET /api/machines requests
func (h *MachineHandler) ListMachines(w http.ResponseWriter, r *http.Request) {
	limit := getQueryInt(r, "limit", 50)
	offset := getQueryInt(r, "offset", 0)

	machines, err := h.machineService.ListMachines(r.Context(), limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list machines")
		return
	}

	responses := make([]MachineResponse, 0, len(machines))
	for _, m := range machines {
		responses = append(responses, machineToResponse(m))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// DeleteMachine handles DELETE /api/machines/{id} requests
func (h *MachineHandler) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.machineService.DeleteMachine(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete machine")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// machineToResponse converts a domain.Machine to a MachineResponse
func machineToResponse(m *domain.Machine) MachineResponse {
	return MachineResponse{
		ID:         m.ID.String(),
		Name:       m.Name,
		Department: m.Department,
		Location:   m.Location,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
