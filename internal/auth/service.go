// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// Service provides registration and login.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
}

// NewService creates a new Service.
func NewService(accounts AccountRepository, hasher PasswordHasher) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("password hasher is required")
	}
	return &Service{accounts: accounts, hasher: hasher}, nil
}

// dummyPasswordHash is used when an account doesn't exist to keep login
// response time consistent and prevent handle enumeration by timing.
// This is NOT a real credential and matches no password used anywhere.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Register creates a new account with a hashed credential.
// All three fields are required. A handle or email already in use, on
// either the pre-check or the store's unique index during a racing
// create, returns an error wrapping ErrConflict. The plaintext password
// is never stored. There is no auto-login: the caller redirects to the
// login entry point.
func (s *Service) Register(ctx context.Context, handle, email, password string) (*Account, error) {
	if handle == "" || email == "" || password == "" {
		return nil, oops.Code("AUTH_VALIDATION_FAILED").
			Wrapf(ErrValidation, "handle, email, and password are all required")
	}
	if err := ValidateHandle(handle); err != nil {
		return nil, oops.Code("AUTH_VALIDATION_FAILED").Wrapf(ErrValidation, "%s", err.Error())
	}
	if err := ValidateEmail(email); err != nil {
		return nil, oops.Code("AUTH_VALIDATION_FAILED").Wrapf(ErrValidation, "%s", err.Error())
	}

	existing, err := s.accounts.GetByHandleOrEmail(ctx, handle, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check existing account").
			Wrap(err)
	}
	if existing != nil {
		return nil, oops.Code("AUTH_CONFLICT").
			With("handle", handle).
			Wrapf(ErrConflict, "handle or email already in use")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account := &Account{
		Handle:       handle,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		// The unique index catches the race between concurrent
		// registrations; surface it the same way as the pre-check.
		if errors.Is(err, ErrConflict) {
			return nil, oops.Code("AUTH_CONFLICT").
				With("handle", handle).
				Wrapf(ErrConflict, "handle or email already in use")
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create account").
			With("handle", handle).
			Wrap(err)
	}

	return account, nil
}

// Login verifies a handle and password and returns the account on
// success. An unknown handle and a wrong password return an identical
// error wrapping ErrInvalidCredentials; a dummy hash verification keeps
// the two paths close in timing.
func (s *Service) Login(ctx context.Context, handle, password string) (*Account, error) {
	if handle == "" || password == "" {
		return nil, oops.Code("AUTH_VALIDATION_FAILED").
			Wrapf(ErrValidation, "handle and password are both required")
	}

	account, lookupErr := s.accounts.GetByHandle(ctx, handle)

	targetHash := dummyPasswordHash
	accountExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get account by handle").
				Wrap(lookupErr)
		}
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !accountExists {
			return nil, oops.Code("AUTH_INVALID_CREDENTIALS").
				Wrapf(ErrInvalidCredentials, "invalid credentials")
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !accountExists || !valid {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").
			Wrapf(ErrInvalidCredentials, "invalid credentials")
	}

	return account, nil
}
