// Package domain contains the core entities of the maintenance system:
// machines, maintenance plans and their checklist items, along with the
// enumerations (frequency codes, priorities, statuses) that govern them.
//
// Entities validate themselves; persistence and transport concerns live in
// the store and api packages respectively. The pure scheduling and numbering
// rules are split into the schedule and tasknum subpackages so they can be
// tested without any infrastructure.
package domain
