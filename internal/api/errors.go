package api

import (
	"errors"
	"net/http"

	"github.com/marchukov/upkeep-api/internal/api/shared"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/service"
	"github.com/marchukov/upkeep-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrMachineNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, store.ErrMachineNotFound),
		errors.Is(err, store.ErrPlanNotFound),
		errors.Is(err, store.ErrItemNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrTaskNoExists):
		return http.StatusConflict

	// Business rule violations
	case errors.Is(err, service.ErrAttachmentMissing):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidPlanStatus),
		errors.Is(err, domain.ErrInvalidItemStatus),
		errors.Is(err, domain.ErrEndBeforeStart),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrMachineNotFound), errors.Is(err, store.ErrMachineNotFound):
		return "Machine not found"

	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, store.ErrPlanNotFound):
		return "Maintenance plan not found"

	case errors.Is(err, service.ErrItemNotFound), errors.Is(err, store.ErrItemNotFound):
		return "Checklist item not found"

	case errors.Is(err, store.ErrTaskNoExists):
		return "Task number already taken, retry the request"

	case errors.Is(err, service.ErrAttachmentMissing):
		return "Completing this item requires an image attachment"

	case errors.Is(err, domain.ErrInvalidFrequency):
		return "Invalid frequency code"

	case errors.Is(err, domain.ErrInvalidPriority):
		return "Invalid priority"

	case errors.Is(err, domain.ErrInvalidPlanStatus):
		return "Invalid plan status"

	case errors.Is(err, domain.ErrInvalidItemStatus):
		return "Invalid checklist item status"

	case errors.Is(err, domain.ErrEndBeforeStart):
		return "End date cannot be before start date"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to its status code and safe message and
// writes the response, logging the full error server-side. When
// defaultMsg is non-empty it overrides the mapped message for errors
// that fall through to the generic one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if defaultMsg != "" && status == http.StatusInternalServerError {
		message = defaultMsg
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
