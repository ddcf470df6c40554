// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package web

import (
	"log/slog"
	"net/http"

	"github.com/taskhive/taskhive/internal/session"
	"github.com/taskhive/taskhive/pkg/errutil"
)

func (h *Handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "home", &viewData{
		Title:    "Home",
		Identity: h.optionalIdentity(r),
	})
}

// optionalIdentity decodes the session on public pages so the nav can
// reflect login state. Failures just mean an anonymous visitor.
func (h *Handlers) optionalIdentity(r *http.Request) *session.Identity {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return nil
	}
	state, err := h.sessions.Decode(cookie.Value, h.now())
	if err != nil {
		return nil
	}
	return &state.Identity
}

func (h *Handlers) handleRegisterForm(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, "register", &viewData{Title: "Register", Form: map[string]string{}})
}

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	handle := r.PostFormValue("handle")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	_, err := h.auth.Register(r.Context(), handle, email, password)
	if err != nil {
		errutil.LogError(slog.Default(), "registration failed", err)
		h.render(w, http.StatusOK, "register", &viewData{
			Title: "Register",
			Error: userMessage(err),
			Form:  map[string]string{"handle": handle, "email": email},
		})
		return
	}

	// No auto-login: the new account proves its password at /login.
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handlers) handleLoginForm(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, "login", &viewData{Title: "Log in", Form: map[string]string{}})
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	handle := r.PostFormValue("handle")
	password := r.PostFormValue("password")

	account, err := h.auth.Login(r.Context(), handle, password)
	if err != nil {
		h.countLogin("failure")
		h.render(w, http.StatusOK, "login", &viewData{
			Title: "Log in",
			Error: userMessage(err),
			Form:  map[string]string{"handle": handle},
		})
		return
	}

	token, err := h.sessions.Issue(session.Identity{
		AccountID: account.ID,
		Handle:    account.Handle,
		Email:     account.Email,
	}, h.now())
	if err != nil {
		errutil.LogError(slog.Default(), "session issue failed", err)
		h.countLogin("failure")
		h.render(w, http.StatusOK, "login", &viewData{
			Title: "Log in",
			Error: userMessage(err),
			Form:  map[string]string{"handle": handle},
		})
		return
	}

	h.countLogin("success")
	setSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout destroys the session unconditionally. Logging out while
// already logged out is fine.
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handlers) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}
