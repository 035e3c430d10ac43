// Package mongodb provides a MongoDB-backed implementation of the
// storage.Store interface. All users live in one collection, one document
// per user, and every mutation is a single path-addressed updateOne.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mmynk/tasket/internal/models"
	"github.com/mmynk/tasket/internal/storage"
)

// Ensure MongoStore implements storage.Store
var _ storage.Store = (*MongoStore)(nil)

// MongoStore implements storage.Store on a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
}

// New connects to the MongoDB deployment at uri and returns a store over
// database/collection. The connection is verified with a ping before use.
func New(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return &MongoStore{
		client: client,
		users:  client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects from the deployment.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping verifies the deployment is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return nil
}

// InsertUser persists a new user document.
func (s *MongoStore) InsertUser(ctx context.Context, u *models.User) (string, error) {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", storage.ErrDuplicateEmail
		}
		return "", fmt.Errorf("%w: insert user: %v", storage.ErrUnavailable, err)
	}
	return u.ID.Hex(), nil
}

// FindUserByEmail retrieves the user owning email.
func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", storage.ErrUnavailable, err)
	}
	return &u, nil
}

// FindUserByID retrieves the user document by hex id.
func (s *MongoStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	var u models.User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", storage.ErrUnavailable, err)
	}
	return &u, nil
}

// UpdateUser applies the path ops as a single updateOne.
func (s *MongoStore) UpdateUser(ctx context.Context, id string, ops []storage.Op) (storage.Result, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.Result{}, nil
	}

	res, err := s.users.UpdateByID(ctx, oid, buildUpdate(ops))
	if err != nil {
		return storage.Result{}, fmt.Errorf("%w: update user: %v", storage.ErrUnavailable, err)
	}
	return storage.Result{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// buildUpdate folds the op list into one update document. Ops that must
// observe each other's effects (tombstone before compaction, attribute set
// before rename) are issued by the engine as separate UpdateUser calls, so
// folding same-call ops by operator is safe.
func buildUpdate(ops []storage.Op) bson.M {
	fields := map[string]bson.M{}
	field := func(operator string) bson.M {
		m, ok := fields[operator]
		if !ok {
			m = bson.M{}
			fields[operator] = m
		}
		return m
	}

	for _, op := range ops {
		switch o := op.(type) {
		case storage.Set:
			field("$set")[o.Path] = o.Value
		case storage.Unset:
			field("$unset")[o.Path] = ""
		case storage.Rename:
			field("$rename")[o.Path] = o.NewPath
		case storage.Push:
			field("$push")[o.Path] = o.Value
		case storage.PullEqual:
			field("$pull")[o.Path] = o.Value
		}
	}

	update := bson.M{}
	for operator, m := range fields {
		update[operator] = m
	}
	return update
}
