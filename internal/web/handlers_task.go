// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskhive/taskhive/internal/task"
	"github.com/taskhive/taskhive/pkg/errutil"
)

const dueDateLayout = "2006-01-02"

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderTaskListPage(w, r, "dashboard", "Dashboard")
}

func (h *Handlers) handleTaskList(w http.ResponseWriter, r *http.Request) {
	h.renderTaskListPage(w, r, "tasks", "Tasks")
}

// renderTaskListPage lists the owner's tasks. A store failure degrades
// to an empty list rather than an error page; the failure is logged.
func (h *Handlers) renderTaskListPage(w http.ResponseWriter, r *http.Request, page, title string) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	tasks, err := h.tasks.List(r.Context(), identity.AccountID)
	if err != nil {
		errutil.LogError(slog.Default(), "task list failed", err)
		tasks = nil
	}

	h.render(w, http.StatusOK, page, &viewData{
		Title:    title,
		Identity: &identity,
		Tasks:    tasks,
	})
}

func (h *Handlers) handleTaskAddForm(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	h.render(w, http.StatusOK, "task_add", &viewData{
		Title:    "Add task",
		Identity: &identity,
		Form:     map[string]string{},
	})
}

func (h *Handlers) handleTaskAdd(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	title := r.PostFormValue("title")
	description := optionalText(r.PostFormValue("description"))
	form := map[string]string{
		"title":       title,
		"description": r.PostFormValue("description"),
		"due_date":    r.PostFormValue("due_date"),
	}

	dueDate, err := parseDueDate(r.PostFormValue("due_date"))
	if err != nil {
		h.render(w, http.StatusOK, "task_add", &viewData{
			Title:    "Add task",
			Identity: &identity,
			Error:    "Due date must be in YYYY-MM-DD format.",
			Form:     form,
		})
		return
	}

	if _, err := h.tasks.Add(r.Context(), identity.AccountID, title, description, dueDate); err != nil {
		errutil.LogError(slog.Default(), "task add failed", err)
		h.render(w, http.StatusOK, "task_add", &viewData{
			Title:    "Add task",
			Identity: &identity,
			Error:    userMessage(err),
			Form:     form,
		})
		return
	}

	h.countTask("create")
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// handleTaskEditForm renders the edit form for one of the owner's
// tasks. A miss — bad id, no such task, or someone else's task — is a
// silent redirect to the task list so existence never leaks.
func (h *Handlers) handleTaskEditForm(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		http.Redirect(w, r, "/tasks", http.StatusFound)
		return
	}

	t, err := h.tasks.Get(r.Context(), identity.AccountID, id)
	if err != nil {
		if !isNotFound(err) {
			errutil.LogError(slog.Default(), "task fetch failed", err)
		}
		http.Redirect(w, r, "/tasks", http.StatusFound)
		return
	}

	h.render(w, http.StatusOK, "task_edit", &viewData{
		Title:    "Edit task",
		Identity: &identity,
		Task:     t,
	})
}

func (h *Handlers) handleTaskEdit(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		http.Redirect(w, r, "/tasks", http.StatusFound)
		return
	}

	title := r.PostFormValue("title")
	description := optionalText(r.PostFormValue("description"))
	statusValue := r.PostFormValue("status")

	// Rebuild the task from the posted values so a failed submit
	// re-renders with what the user typed.
	submitted := &task.Task{
		ID:          id,
		Title:       title,
		Description: description,
		OwnerID:     identity.AccountID,
	}

	rerender := func(message string) {
		h.render(w, http.StatusOK, "task_edit", &viewData{
			Title:    "Edit task",
			Identity: &identity,
			Error:    message,
			Task:     submitted,
		})
	}

	dueDate, err := parseDueDate(r.PostFormValue("due_date"))
	if err != nil {
		rerender("Due date must be in YYYY-MM-DD format.")
		return
	}
	submitted.DueDate = dueDate

	status, err := task.ParseStatus(statusValue)
	if err != nil {
		rerender(userMessage(task.ErrValidation))
		return
	}
	submitted.Status = status

	if err := h.tasks.Update(r.Context(), identity.AccountID, id, title, description, dueDate, status); err != nil {
		if isNotFound(err) {
			http.Redirect(w, r, "/tasks", http.StatusFound)
			return
		}
		errutil.LogError(slog.Default(), "task update failed", err)
		rerender(userMessage(err))
		return
	}

	h.countTask("update")
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// handleTaskDelete always lands back on the task list. Deleting a
// task that is already gone is a success; a store failure is logged
// and swallowed so the list stays reachable.
func (h *Handlers) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if id, err := ulid.Parse(r.PathValue("id")); err == nil {
		if err := h.tasks.Delete(r.Context(), identity.AccountID, id); err != nil {
			errutil.LogError(slog.Default(), "task delete failed", err)
		} else {
			h.countTask("delete")
		}
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// handleTaskStatus sets a task's status from the posted value and lands
// back on the task list. Failures are logged and swallowed like delete.
func (h *Handlers) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, idErr := ulid.Parse(r.PathValue("id"))
	status, statusErr := task.ParseStatus(r.PostFormValue("status"))
	if idErr == nil && statusErr == nil {
		if err := h.tasks.SetStatus(r.Context(), identity.AccountID, id, status); err != nil {
			errutil.LogError(slog.Default(), "task status update failed", err)
		} else {
			h.countTask("status")
		}
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func (h *Handlers) countTask(operation string) {
	if h.metrics != nil {
		h.metrics.TasksTotal.WithLabelValues(operation).Inc()
	}
}

// optionalText maps a blank form field to nil.
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseDueDate parses an optional YYYY-MM-DD form field.
func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dueDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, task.ErrNotFound)
}
