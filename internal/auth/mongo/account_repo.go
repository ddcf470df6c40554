// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

// Package mongo implements auth.AccountRepository using MongoDB.
package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/taskhive/internal/auth"
)

// Collection is the accounts collection name.
const Collection = "users"

// accountDoc is the stored shape of an account. Field names follow the
// existing deployment's documents.
type accountDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// AccountRepository implements auth.AccountRepository on a MongoDB
// collection.
type AccountRepository struct {
	coll *mongo.Collection
}

// NewAccountRepository creates an AccountRepository on db's users
// collection.
func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(Collection)}
}

// EnsureIndexes creates the unique indexes on username and email. The
// indexes are the authority on uniqueness: a racing duplicate create is
// rejected here, not by application-level checks.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return oops.Code("ACCOUNT_INDEX_FAILED").
			With("collection", Collection).
			Wrap(err)
	}
	return nil
}

// Create stores a new account and fills in its ID. A duplicate username
// or email returns auth.ErrConflict.
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) error {
	doc := accountDoc{
		Username:  account.Handle,
		Email:     account.Email,
		Password:  account.PasswordHash,
		CreatedAt: account.CreatedAt,
	}

	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return oops.Code("ACCOUNT_CONFLICT").
				With("handle", account.Handle).
				Wrap(auth.ErrConflict)
		}
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("handle", account.Handle).
			Wrap(err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return oops.Code("ACCOUNT_CREATE_FAILED").
			Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	account.ID = oid.Hex()
	return nil
}

// GetByHandle retrieves an account by exact handle.
func (r *AccountRepository) GetByHandle(ctx context.Context, handle string) (*auth.Account, error) {
	return r.findOne(ctx, bson.M{"username": handle}, "get account by handle")
}

// GetByHandleOrEmail retrieves an account matching either field.
func (r *AccountRepository) GetByHandleOrEmail(ctx context.Context, handle, email string) (*auth.Account, error) {
	filter := bson.M{"$or": []bson.M{
		{"username": handle},
		{"email": email},
	}}
	return r.findOne(ctx, filter, "get account by handle or email")
}

// GetByID retrieves an account by its hex id. A malformed id is treated
// as not found.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*auth.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": oid}, "get account by id")
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M, operation string) (*auth.Account, error) {
	var doc accountDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_FAILED").
			With("operation", operation).
			Wrap(err)
	}

	return &auth.Account{
		ID:           doc.ID.Hex(),
		Handle:       doc.Username,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt,
	}, nil
}
