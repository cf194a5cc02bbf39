// Package store declares the persistence interfaces for machines,
// maintenance plans, checklist items and background tasks, plus the
// transaction helper the service layer uses to keep plan creation and
// checklist numbering atomic. Implementations live under
// internal/platform.
package store
