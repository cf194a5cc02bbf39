// Package api exposes the maintenance-management HTTP surface: machine
// registration, plan assignment and preview, and checklist item updates.
// Handlers decode and validate request bodies, call into the service
// layer, and map service errors to safe HTTP responses.
package api
