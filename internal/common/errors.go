// Package common defines the sentinel errors shared by the server, the
// transport layer and the client. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Access policy.
	ErrAccessDenied = errors.New("access denied")

	// Identity and lookup errors.
	ErrInvalidIdentity = errors.New("invalid address")
	ErrorNotFound      = errors.New("not found")
	ErrUnknownAssignee = errors.New("user must be added to the project first")
	ErrAlreadyExists   = errors.New("user is already added")

	// Directory validation.
	ErrRoleRequired = errors.New("can't setup role as None")
	ErrEmptyName    = errors.New("username cannot be empty")

	// Task lifecycle.
	ErrAssigneeAlreadySet = errors.New("assignee already set")
	ErrNoAssignee         = errors.New("cannot update status of a task without an assignee")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrTaskCompleted      = errors.New("cannot deposit to a completed task")
	ErrNotInValidation    = errors.New("task must be in Validation status to complete")
	ErrNoReward           = errors.New("no reward available for this task")
	ErrInvalidStatus      = errors.New("status out of range")
	ErrInvalidAmount      = errors.New("amount must be a non-negative integer")
	ErrEmptyTitle         = errors.New("title cannot be empty")

	// Snapshot export.
	ErrSnapshotsDisabled = errors.New("snapshot storage is not configured")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
