// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

// Package store provides datastore connections and schema management.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// connectAttempts bounds the startup connection retry. Per-request
// operations never retry; only process start waits for the database.
const connectAttempts = 5

// OpenPostgres opens a pgx connection pool and verifies connectivity
// with a bounded fibonacci backoff. The DSN controls TLS (sslmode).
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectAttempts, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			With("attempts", connectAttempts+1).
			Wrap(err)
	}

	return pool, nil
}
