// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

// Package task provides owner-scoped task management.
//
// Every repository operation that touches a single task filters by both
// the task id and the owner's account id. A task belonging to another
// account is indistinguishable from one that does not exist; that is
// the invariant this package exists to preserve.
package task

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Status is a task's completion state. Transitions are free-form:
// either state is reachable from either via edit or status update.
type Status string

// Task statuses.
const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
)

// ParseStatus parses a form value into a Status. An empty value
// defaults to pending; anything else unknown is rejected.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return StatusPending, nil
	case StatusPending:
		return StatusPending, nil
	case StatusComplete:
		return StatusComplete, nil
	default:
		return "", oops.Code("TASK_INVALID_STATUS").
			With("status", s).
			Errorf("status must be %q or %q", StatusPending, StatusComplete)
	}
}

// Toggle returns the other status.
func (s Status) Toggle() Status {
	if s == StatusComplete {
		return StatusPending
	}
	return StatusComplete
}

// Task is a single to-do item owned by one account.
type Task struct {
	ID          ulid.ULID
	Title       string
	Description *string
	DueDate     *time.Time
	Status      Status
	// OwnerID references an account id by value; there is no enforced
	// foreign key between the two stores.
	OwnerID   string
	CreatedAt time.Time
}

// Repository manages task persistence. Every single-task operation is
// owner-scoped: it takes the caller's account id and must filter by it.
type Repository interface {
	// ListByOwner returns all tasks for the owner ordered by creation
	// time ascending.
	ListByOwner(ctx context.Context, ownerID string) ([]*Task, error)

	// GetByIDAndOwner retrieves one task scoped to the owner. A missing
	// id and a foreign owner both return ErrNotFound.
	GetByIDAndOwner(ctx context.Context, id ulid.ULID, ownerID string) (*Task, error)

	// Create stores a new task.
	Create(ctx context.Context, t *Task) error

	// Update rewrites title, description, due date, and status on the
	// scoped task. Returns ErrNotFound when no row matches.
	Update(ctx context.Context, t *Task) error

	// UpdateStatus updates only the status of the scoped task. Returns
	// ErrNotFound when no row matches.
	UpdateStatus(ctx context.Context, id ulid.ULID, ownerID string, status Status) error

	// Delete removes the scoped task. Absence of a match is success.
	Delete(ctx context.Context, id ulid.ULID, ownerID string) error
}
