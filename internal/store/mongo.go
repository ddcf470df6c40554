// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package store

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// OpenMongo connects a Mongo client and verifies connectivity with the
// same bounded startup backoff as OpenPostgres.
func OpenMongo(ctx context.Context, url string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "create mongo client").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectAttempts, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := client.Ping(ctx, readpref.Primary()); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx)) //nolint:errcheck // best-effort cleanup on failed startup
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping mongo").
			With("attempts", connectAttempts+1).
			Wrap(err)
	}

	return client, nil
}
