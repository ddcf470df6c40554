// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/task"
)

const testOwner = "665f2a1b9d1e8c0012345678"

func taskColumns() []string {
	return []string{"id", "title", "description", "due_date", "status", "owner_id", "created_at"}
}

func TestTaskRepository_ListByOwner(t *testing.T) {
	firstID := ulid.Make()
	secondID := ulid.Make()
	now := time.Now().UTC()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantLen   int
		wantErr   bool
	}{
		{
			name: "returns owner tasks in insertion order",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(taskColumns()).
					AddRow(firstID.String(), "first", (*string)(nil), (*time.Time)(nil), "pending", testOwner, now).
					AddRow(secondID.String(), "second", (*string)(nil), (*time.Time)(nil), "complete", testOwner, now.Add(time.Minute))
				mock.ExpectQuery(`SELECT id, title, description, due_date, status, owner_id, created_at\s+FROM tasks\s+WHERE owner_id = \$1\s+ORDER BY created_at ASC`).
					WithArgs(testOwner).
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "no tasks yields empty result",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT [^;]+\s+FROM tasks`).
					WithArgs(testOwner).
					WillReturnRows(pgxmock.NewRows(taskColumns()))
			},
			wantLen: 0,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT [^;]+\s+FROM tasks`).
					WithArgs(testOwner).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewTaskRepository(mock)
			got, err := repo.ListByOwner(context.Background(), testOwner)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, got, tt.wantLen)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestTaskRepository_GetByIDAndOwner(t *testing.T) {
	id := ulid.Make()
	now := time.Now().UTC()
	desc := "2%"
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns scoped task with optional fields", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows(taskColumns()).
			AddRow(id.String(), "Buy milk", &desc, &due, "pending", testOwner, now)
		mock.ExpectQuery(`SELECT [^;]+\s+FROM tasks\s+WHERE id = \$1 AND owner_id = \$2`).
			WithArgs(id.String(), testOwner).
			WillReturnRows(rows)

		repo := NewTaskRepository(mock)
		got, err := repo.GetByIDAndOwner(context.Background(), id, testOwner)
		require.NoError(t, err)

		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Buy milk", got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, "2%", *got.Description)
		require.NotNil(t, got.DueDate)
		assert.Equal(t, due, *got.DueDate)
		assert.Equal(t, task.StatusPending, got.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scoped miss maps to not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT [^;]+\s+FROM tasks\s+WHERE id = \$1 AND owner_id = \$2`).
			WithArgs(id.String(), testOwner).
			WillReturnRows(pgxmock.NewRows(taskColumns()))

		repo := NewTaskRepository(mock)
		_, err = repo.GetByIDAndOwner(context.Background(), id, testOwner)
		require.Error(t, err)
		assert.ErrorIs(t, err, task.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepository_Create(t *testing.T) {
	id := ulid.Make()
	now := time.Now().UTC()

	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO tasks`).
			WithArgs(id.String(), "Buy milk", (*string)(nil), (*time.Time)(nil), "pending", testOwner, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewTaskRepository(mock)
		err = repo.Create(context.Background(), &task.Task{
			ID:        id,
			Title:     "Buy milk",
			Status:    task.StatusPending,
			OwnerID:   testOwner,
			CreatedAt: now,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO tasks`).
			WillReturnError(errors.New("connection refused"))

		repo := NewTaskRepository(mock)
		err = repo.Create(context.Background(), &task.Task{
			ID:        id,
			Title:     "Buy milk",
			Status:    task.StatusPending,
			OwnerID:   testOwner,
			CreatedAt: now,
		})
		require.Error(t, err)
	})
}

func TestTaskRepository_Update(t *testing.T) {
	id := ulid.Make()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful scoped update",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE tasks SET`).
					WithArgs(id.String(), testOwner, "new title", (*string)(nil), (*time.Time)(nil), "complete").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "scoped miss returns not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE tasks SET`).
					WithArgs(id.String(), testOwner, "new title", (*string)(nil), (*time.Time)(nil), "complete").
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: task.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewTaskRepository(mock)
			err = repo.Update(context.Background(), &task.Task{
				ID:      id,
				Title:   "new title",
				Status:  task.StatusComplete,
				OwnerID: testOwner,
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTaskRepository_UpdateStatus(t *testing.T) {
	id := ulid.Make()

	t.Run("updates only the status column", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE tasks SET status = \$3\s+WHERE id = \$1 AND owner_id = \$2`).
			WithArgs(id.String(), testOwner, "complete").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewTaskRepository(mock)
		err = repo.UpdateStatus(context.Background(), id, testOwner, task.StatusComplete)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scoped miss returns not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE tasks SET status`).
			WithArgs(id.String(), testOwner, "pending").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewTaskRepository(mock)
		err = repo.UpdateStatus(context.Background(), id, testOwner, task.StatusPending)
		require.Error(t, err)
		assert.ErrorIs(t, err, task.ErrNotFound)
	})
}

func TestTaskRepository_Delete(t *testing.T) {
	id := ulid.Make()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   bool
	}{
		{
			name: "successful scoped delete",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1 AND owner_id = \$2`).
					WithArgs(id.String(), testOwner).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			name: "missing row is still success",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1 AND owner_id = \$2`).
					WithArgs(id.String(), testOwner).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM tasks`).
					WithArgs(id.String(), testOwner).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewTaskRepository(mock)
			err = repo.Delete(context.Background(), id, testOwner)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// Compile-time check that the repository satisfies the domain interface.
var _ task.Repository = (*TaskRepository)(nil)
