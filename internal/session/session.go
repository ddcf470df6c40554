// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

// Package session implements the client-held session token.
//
// A session is a signed HS256 JWT carried in an HttpOnly cookie. It is
// never persisted server-side. The token carries two expiries: an
// absolute one fixed at issue time, and an idle one extended on each
// authenticated request (sliding expiry). A session is live only while
// the current time is before both.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// CookieName is the name of the session cookie.
const CookieName = "taskhive_session"

// ErrInvalid is returned when a token is missing, malformed, tampered
// with, or expired. Callers must not distinguish these cases.
var ErrInvalid = oops.Code("SESSION_INVALID").Errorf("invalid or expired session")

// Identity is the authenticated principal carried by a session.
type Identity struct {
	AccountID string
	Handle    string
	Email     string
}

// claims is the JWT payload. IdleDeadline slides forward on activity;
// RegisteredClaims.ExpiresAt is the absolute deadline and never moves.
type claims struct {
	jwt.RegisteredClaims
	Handle       string           `json:"handle"`
	Email        string           `json:"email"`
	IdleDeadline *jwt.NumericDate `json:"idle"`
}

// Carrier mints and validates session tokens.
type Carrier struct {
	secret       []byte
	duration     time.Duration
	activeWindow time.Duration
}

// NewCarrier creates a Carrier. duration is the absolute session
// lifetime; activeWindow is how far the idle deadline extends past each
// authenticated request.
func NewCarrier(secret []byte, duration, activeWindow time.Duration) (*Carrier, error) {
	if len(secret) == 0 {
		return nil, oops.Code("SESSION_CONFIG_INVALID").Errorf("secret is required")
	}
	if duration <= 0 {
		return nil, oops.Code("SESSION_CONFIG_INVALID").Errorf("duration must be positive")
	}
	if activeWindow <= 0 || activeWindow > duration {
		return nil, oops.Code("SESSION_CONFIG_INVALID").
			Errorf("active window must be positive and at most the session duration")
	}
	return &Carrier{secret: secret, duration: duration, activeWindow: activeWindow}, nil
}

// Issue mints a fresh token for the identity at time now. The absolute
// deadline is now+duration; the idle deadline is now+activeWindow,
// capped at the absolute deadline.
func (c *Carrier) Issue(id Identity, now time.Time) (string, error) {
	if id.AccountID == "" {
		return "", oops.Code("SESSION_IDENTITY_INVALID").Errorf("account id is required")
	}
	absolute := now.Add(c.duration)
	return c.sign(id, now, absolute)
}

// Renew re-mints the token with the idle deadline slid forward to
// now+activeWindow. The original absolute deadline is preserved, so
// renewal can never extend a session past its issued lifetime.
func (c *Carrier) Renew(id Identity, absoluteDeadline, now time.Time) (string, error) {
	if id.AccountID == "" {
		return "", oops.Code("SESSION_IDENTITY_INVALID").Errorf("account id is required")
	}
	return c.sign(id, now, absoluteDeadline)
}

func (c *Carrier) sign(id Identity, now, absolute time.Time) (string, error) {
	idle := now.Add(c.activeWindow)
	if idle.After(absolute) {
		idle = absolute
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(absolute),
		},
		Handle:       id.Handle,
		Email:        id.Email,
		IdleDeadline: jwt.NewNumericDate(idle),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", oops.Code("SESSION_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// State is the decoded view of a raw token at a point in time.
type State struct {
	Identity Identity

	// AbsoluteDeadline is the fixed end of the session's lifetime.
	AbsoluteDeadline time.Time

	// IdleDeadline is the sliding activity deadline at decode time.
	IdleDeadline time.Time
}

// Decode is a pure function of the raw token and the current time. It
// returns ErrInvalid for any missing, malformed, tampered, or expired
// token; callers get no further detail.
func (c *Carrier) Decode(raw string, now time.Time) (*State, error) {
	if raw == "" {
		return nil, ErrInvalid
	}

	var cl claims
	token, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil || !token.Valid {
		return nil, ErrInvalid
	}

	if cl.Subject == "" || cl.ExpiresAt == nil || cl.IdleDeadline == nil {
		return nil, ErrInvalid
	}
	if now.After(cl.ExpiresAt.Time) || now.After(cl.IdleDeadline.Time) {
		return nil, ErrInvalid
	}

	return &State{
		Identity: Identity{
			AccountID: cl.Subject,
			Handle:    cl.Handle,
			Email:     cl.Email,
		},
		AbsoluteDeadline: cl.ExpiresAt.Time,
		IdleDeadline:     cl.IdleDeadline.Time,
	}, nil
}
