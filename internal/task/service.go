// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package task

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides the owner-scoped task operations. Every method takes
// the session's account id and passes it through to the repository; no
// task is readable or mutable through any other account's requests.
type Service struct {
	tasks Repository
}

// NewService creates a new Service.
func NewService(tasks Repository) (*Service, error) {
	if tasks == nil {
		return nil, oops.Code("TASK_CONFIG_INVALID").Errorf("tasks repository is required")
	}
	return &Service{tasks: tasks}, nil
}

// List returns the owner's tasks in insertion order.
func (s *Service) List(ctx context.Context, ownerID string) ([]*Task, error) {
	if ownerID == "" {
		return nil, oops.Code("TASK_OWNER_REQUIRED").Errorf("owner id is required")
	}
	tasks, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "list tasks").
			Wrap(err)
	}
	return tasks, nil
}

// Add creates a task for the owner. Title is required; description and
// due date are optional and stored as absent when empty; status starts
// as pending.
func (s *Service) Add(ctx context.Context, ownerID, title string, description *string, dueDate *time.Time) (*Task, error) {
	if ownerID == "" {
		return nil, oops.Code("TASK_OWNER_REQUIRED").Errorf("owner id is required")
	}
	if title == "" {
		return nil, oops.Code("TASK_VALIDATION_FAILED").
			Wrapf(ErrValidation, "title is required")
	}

	t := &Task{
		ID:          ulid.Make(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Status:      StatusPending,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, oops.Code("TASK_ADD_FAILED").
			With("operation", "create task").
			Wrap(err)
	}
	return t, nil
}

// Get retrieves one task scoped to the owner. A nonexistent id and a
// task owned by someone else return the same ErrNotFound.
func (s *Service) Get(ctx context.Context, ownerID string, id ulid.ULID) (*Task, error) {
	if ownerID == "" {
		return nil, oops.Code("TASK_OWNER_REQUIRED").Errorf("owner id is required")
	}
	t, err := s.tasks.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("TASK_NOT_FOUND").
				With("id", id.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("TASK_GET_FAILED").
			With("operation", "get task").
			With("id", id.String()).
			Wrap(err)
	}
	return t, nil
}

// Update rewrites the scoped task's fields. An absent description or
// due date becomes null; an empty status defaults to pending.
func (s *Service) Update(ctx context.Context, ownerID string, id ulid.ULID, title string, description *string, dueDate *time.Time, status Status) error {
	if ownerID == "" {
		return oops.Code("TASK_OWNER_REQUIRED").Errorf("owner id is required")
	}
	if title == "" {
		return oops.Code("TASK_VALIDATION_FAILED").
			Wrapf(ErrValidation, "title is required")
	}
	if status == "" {
		status = StatusPending
	}

	t := &Task{
		ID:          id,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Status:      status,
		OwnerID:     ownerID,
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("TASK_NOT_FOUND").
				With("id", id.String()).
				Wrap(ErrNotFound)
		}
		return oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}

// SetStatus updates only the status of the scoped task.
func (s *Service) SetStatus(ctx context.Context, ownerID string, id ulid.ULID, status Status) error {
	if ownerID == "" {
		return oops.Code("TASK_OWNER_REQUIRED").Errorf("owner id is required")
	}
	if status == "" {
		status = StatusPending
	}

	if err := s.tasks.UpdateStatus(ctx, id, ownerID, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("TASK_NOT_FOUND").
				With("id", id.String()).
				Wrap(ErrNotFound)
		}
		return oops.Code("TASK_STATUS_FAILED").
			With("operation", "update task status").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}

// Delete removes the scoped task. Deleting a nonexistent or foreign
// task is success: the operation is idempotent and leaks nothing about
// what exists.
func (s *Service) Delete(ctx context.Context, ownerID string, id ulid.ULID) error {
	if ownerID == "" {
		return oops.Code("TASK_OWNER_REQUIRED").Errorf("owner id is required")
	}
	if err := s.tasks.Delete(ctx, id, ownerID); err != nil {
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}
