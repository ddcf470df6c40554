// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package task

import "errors"

// ErrNotFound is returned when a scoped lookup matches nothing, whether
// the id does not exist or the task belongs to a different owner.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when a required field is missing or malformed.
var ErrValidation = errors.New("validation failed")
