// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidFrequency is returned when a frequency code is not one of
	// the recognized recurrence patterns.
	ErrInvalidFrequency = errors.New("invalid frequency code")

	// ErrInvalidPriority is returned when a plan priority is not valid.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidPlanStatus is returned when a plan status is not valid.
	ErrInvalidPlanStatus = errors.New("invalid plan status")

	// ErrInvalidItemStatus is returned when a checklist item status is not valid.
	ErrInvalidItemStatus = errors.New("invalid checklist item status")

	// ErrEndBeforeStart is returned when a plan's end date precedes its start date.
	ErrEndBeforeStart = errors.New("end date cannot be before start date")
)
