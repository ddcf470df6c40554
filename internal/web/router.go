// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package web

import "net/http"

// Routes builds the full route table. Owner-scoped routes are wrapped
// by the session gate; everything passes through the metrics counter.
// Unmatched paths get net/http's plain-text 404.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.handleHome)
	mux.HandleFunc("GET /register", h.handleRegisterForm)
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("GET /login", h.handleLoginForm)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("GET /logout", h.handleLogout)

	mux.HandleFunc("GET /dashboard", h.requireSession(h.handleDashboard))
	mux.HandleFunc("GET /tasks", h.requireSession(h.handleTaskList))
	mux.HandleFunc("GET /tasks/add", h.requireSession(h.handleTaskAddForm))
	mux.HandleFunc("POST /tasks/add", h.requireSession(h.handleTaskAdd))
	mux.HandleFunc("GET /tasks/edit/{id}", h.requireSession(h.handleTaskEditForm))
	mux.HandleFunc("POST /tasks/edit/{id}", h.requireSession(h.handleTaskEdit))
	mux.HandleFunc("POST /tasks/delete/{id}", h.requireSession(h.handleTaskDelete))
	mux.HandleFunc("POST /tasks/status/{id}", h.requireSession(h.handleTaskStatus))

	return h.withMetrics(mux)
}
