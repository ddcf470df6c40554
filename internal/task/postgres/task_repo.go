// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

// Package postgres implements task.Repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/taskhive/taskhive/internal/task"
)

// DBPool abstracts query execution so the repository works with both
// *pgxpool.Pool and pgxmock in tests.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TaskRepository implements task.Repository using PostgreSQL. Every
// single-row statement carries the owner id in its WHERE clause; the
// scoping lives in the SQL, not in application checks after the fact.
type TaskRepository struct {
	pool DBPool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool DBPool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// ListByOwner returns all tasks for the owner in insertion order.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*task.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, due_date, status, owner_id, created_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "query tasks by owner").
			Wrap(err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "iterate task rows").
			Wrap(err)
	}
	return tasks, nil
}

// GetByIDAndOwner retrieves one task scoped to the owner.
func (r *TaskRepository) GetByIDAndOwner(ctx context.Context, id ulid.ULID, ownerID string) (*task.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, due_date, status, owner_id, created_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`, id.String(), ownerID)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TASK_NOT_FOUND").
			With("id", id.String()).
			Wrap(task.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TASK_GET_FAILED").
			With("operation", "get task by id and owner").
			With("id", id.String()).
			Wrap(err)
	}
	return t, nil
}

// Create stores a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, title, description, due_date, status, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		t.ID.String(),
		t.Title,
		t.Description,
		t.DueDate,
		string(t.Status),
		t.OwnerID,
		t.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("TASK_DUPLICATE_ID").
				With("id", t.ID.String()).
				Wrap(err)
		}
		return oops.Code("TASK_CREATE_FAILED").
			With("operation", "insert task").
			With("id", t.ID.String()).
			Wrap(err)
	}
	return nil
}

// Update rewrites the mutable fields of the scoped task.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE tasks SET
			title = $3,
			description = $4,
			due_date = $5,
			status = $6
		WHERE id = $1 AND owner_id = $2
	`,
		t.ID.String(),
		t.OwnerID,
		t.Title,
		t.Description,
		t.DueDate,
		string(t.Status),
	)
	if err != nil {
		return oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			With("id", t.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("id", t.ID.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// UpdateStatus updates only the status of the scoped task.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id ulid.ULID, ownerID string, status task.Status) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE tasks SET status = $3
		WHERE id = $1 AND owner_id = $2
	`, id.String(), ownerID, string(status))
	if err != nil {
		return oops.Code("TASK_STATUS_FAILED").
			With("operation", "update task status").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("id", id.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// Delete removes the scoped task. A scoped miss is success, so deletes
// are idempotent and leak nothing about foreign tasks.
func (r *TaskRepository) Delete(ctx context.Context, id ulid.ULID, ownerID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1 AND owner_id = $2
	`, id.String(), ownerID)
	if err != nil {
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}

// scanTask scans a single row into a Task. Callers handle pgx.ErrNoRows.
func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		idStr       string
		title       string
		description *string
		dueDate     *time.Time
		status      string
		ownerID     string
		createdAt   time.Time
	)

	err := row.Scan(&idStr, &title, &description, &dueDate, &status, &ownerID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TASK_SCAN_FAILED").
			With("operation", "scan task").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_ID").
			With("operation", "parse task id").
			With("id", idStr).
			Wrap(err)
	}

	return &task.Task{
		ID:          id,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Status:      task.Status(status),
		OwnerID:     ownerID,
		CreatedAt:   createdAt,
	}, nil
}
