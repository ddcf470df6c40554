// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/observability"
	"github.com/taskhive/taskhive/internal/session"
	"github.com/taskhive/taskhive/internal/task"
)

//go:embed templates/*.html
var templatesFS embed.FS

// viewData is the single payload type handed to every page template.
type viewData struct {
	Title    string
	Error    string
	Identity *session.Identity
	Tasks    []*task.Task
	Task     *task.Task
	Form     map[string]string
}

func newTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02")
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// render executes a page template into a buffer first so a mid-render
// failure never leaks a half-written page to the client.
func (h *Handlers) render(w http.ResponseWriter, status int, page string, data *viewData) {
	if data == nil {
		data = &viewData{}
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, page, data); err != nil {
		slog.Error("template render failed", "page", page, "error", err)
		observability.RecordRenderFailure(page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// userMessage maps a service error to the message shown on a re-rendered
// form. Credential failures and conflicts get fixed wording; anything
// unrecognized gets a generic message so internals never reach the page.
func userMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid handle or password."
	case errors.Is(err, auth.ErrConflict):
		return "That handle or email is already registered."
	case errors.Is(err, auth.ErrValidation):
		return "Please fill in all required fields correctly."
	case errors.Is(err, task.ErrValidation):
		return "Please fill in all required fields correctly."
	default:
		return "Something went wrong. Please try again."
	}
}
