// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/taskhive/taskhive/internal/session"
)

// requireSession is the access gate guarding every owner-scoped route.
// A request with no session, a tampered token, or an expired one (idle
// or absolute) is redirected to /login with no further processing.
// A live session has its identity placed in the request context and its
// idle deadline slid forward via a re-minted cookie; the absolute
// deadline is never extended.
func (h *Handlers) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		now := h.now()
		state, err := h.sessions.Decode(cookie.Value, now)
		if err != nil {
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		// Sliding renewal. A signing failure is not worth failing the
		// request over; the old cookie stays valid until its idle
		// deadline.
		if renewed, renewErr := h.sessions.Renew(state.Identity, state.AbsoluteDeadline, now); renewErr == nil {
			setSessionCookie(w, renewed)
		}

		ctx := context.WithValue(r.Context(), identityKey{}, state.Identity)
		next(w, r.WithContext(ctx))
	}
}

// statusRecorder captures the response status for the metrics middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withMetrics counts every request by route pattern and status code.
// A nil metrics receiver disables counting without branching at call
// sites.
func (h *Handlers) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		h.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}
