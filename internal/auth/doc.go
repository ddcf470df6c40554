// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

// Package auth provides account registration and credential verification.
package auth
