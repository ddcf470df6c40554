// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Handle validation constraints.
const (
	MinHandleLength = 3
	MaxHandleLength = 30
)

// handleRegex matches handles that start with a letter and contain only
// letters, numbers, and underscores.
var handleRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Account is a registered user account. Accounts are created once at
// registration and never mutated or deleted afterwards.
type Account struct {
	// ID is the document store's object id in hex form. Tasks reference
	// it by value; there is no enforced foreign key across stores.
	ID           string
	Handle       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ValidateHandle validates a handle against registration rules.
func ValidateHandle(handle string) error {
	if handle == "" {
		return oops.Code("AUTH_INVALID_HANDLE").Errorf("handle cannot be empty")
	}
	if len(handle) < MinHandleLength {
		return oops.Code("AUTH_INVALID_HANDLE").
			With("min", MinHandleLength).
			Errorf("handle must be at least %d characters", MinHandleLength)
	}
	if len(handle) > MaxHandleLength {
		return oops.Code("AUTH_INVALID_HANDLE").
			With("max", MaxHandleLength).
			Errorf("handle must be at most %d characters", MaxHandleLength)
	}
	if !handleRegex.MatchString(handle) {
		return oops.Code("AUTH_INVALID_HANDLE").
			Errorf("handle must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail performs a minimal shape check; the document store's
// unique index is the authority on duplicates.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email is not valid")
	}
	return nil
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	// Create stores a new account and fills in its ID. A duplicate
	// handle or email returns ErrConflict, including when the duplicate
	// is detected by the store's unique index during a racing create.
	Create(ctx context.Context, account *Account) error

	// GetByHandle retrieves an account by exact handle.
	// Returns ErrNotFound if no account has the given handle.
	GetByHandle(ctx context.Context, handle string) (*Account, error)

	// GetByHandleOrEmail retrieves an account matching either field.
	// Returns ErrNotFound when neither matches.
	GetByHandleOrEmail(ctx context.Context, handle, email string) (*Account, error)

	// GetByID retrieves an account by its hex id.
	GetByID(ctx context.Context, id string) (*Account, error)
}
