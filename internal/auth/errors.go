// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when a required registration or login field
// is missing or malformed.
var ErrValidation = errors.New("validation failed")

// ErrConflict is returned when a handle or email is already taken.
var ErrConflict = errors.New("handle or email already in use")

// ErrInvalidCredentials is returned for any failed login. An unknown
// handle and a wrong password are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")
