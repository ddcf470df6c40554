// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

// Package web is the HTTP surface: routing, session gating, form
// handling and HTML rendering. Every response is a rendered document
// or a redirect; there is no JSON API.
package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/observability"
	"github.com/taskhive/taskhive/internal/session"
	"github.com/taskhive/taskhive/internal/task"
)

// AuthService is the slice of the account service the handlers need.
type AuthService interface {
	Register(ctx context.Context, handle, email, password string) (*auth.Account, error)
	Login(ctx context.Context, handle, password string) (*auth.Account, error)
}

// TaskService is the slice of the task service the handlers need.
// Every operation is scoped to the owner taken from the session.
type TaskService interface {
	List(ctx context.Context, ownerID string) ([]*task.Task, error)
	Add(ctx context.Context, ownerID, title string, description *string, dueDate *time.Time) (*task.Task, error)
	Get(ctx context.Context, ownerID string, id ulid.ULID) (*task.Task, error)
	Update(ctx context.Context, ownerID string, id ulid.ULID, title string, description *string, dueDate *time.Time, status task.Status) error
	SetStatus(ctx context.Context, ownerID string, id ulid.ULID, status task.Status) error
	Delete(ctx context.Context, ownerID string, id ulid.ULID) error
}

// Handlers holds the application services behind the HTTP surface.
type Handlers struct {
	auth     AuthService
	tasks    TaskService
	sessions *session.Carrier
	metrics  *observability.Metrics
	tmpl     *template.Template

	// now is swappable for session-expiry tests.
	now func() time.Time
}

// NewHandlers wires the HTTP surface. metrics may be nil when the
// observability server is disabled.
func NewHandlers(authSvc AuthService, taskSvc TaskService, sessions *session.Carrier, metrics *observability.Metrics) (*Handlers, error) {
	if authSvc == nil {
		return nil, oops.Code("INVALID_DEPENDENCY").Errorf("auth service is required")
	}
	if taskSvc == nil {
		return nil, oops.Code("INVALID_DEPENDENCY").Errorf("task service is required")
	}
	if sessions == nil {
		return nil, oops.Code("INVALID_DEPENDENCY").Errorf("session carrier is required")
	}

	tmpl, err := newTemplates()
	if err != nil {
		return nil, oops.Code("TEMPLATE_PARSE_FAILED").Wrap(err)
	}

	return &Handlers{
		auth:     authSvc,
		tasks:    taskSvc,
		sessions: sessions,
		metrics:  metrics,
		tmpl:     tmpl,
		now:      time.Now,
	}, nil
}

type identityKey struct{}

// identityFrom returns the authenticated identity placed in the request
// context by the session gate.
func identityFrom(ctx context.Context) (session.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(session.Identity)
	return id, ok
}

// setSessionCookie writes the session token as an HttpOnly cookie.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie tells the client to drop the session cookie.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
