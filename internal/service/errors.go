// Package service provides application-level services for managing machines,
// maintenance plans, and checklist items.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrMachineNotFound indicates that the referenced machine does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrMachineNotFound = errors.New("machine not found")

	// ErrPlanNotFound indicates that the maintenance plan does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrPlanNotFound = errors.New("maintenance plan not found")

	// ErrItemNotFound indicates that the checklist item does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrItemNotFound = errors.New("checklist item not found")

	// ErrAttachmentMissing indicates that an item of an attachment-required
	// plan was completed without an image.
	// API layer should map this to HTTP 422 Unprocessable Entity.
	ErrAttachmentMissing = errors.New("completing this item requires an image attachment")
)
