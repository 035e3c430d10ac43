// Package memory provides an in-memory implementation of the storage.Store
// interface with the same path-op semantics as the MongoDB backend: dotted
// paths, numeric segments indexing into sequences, and mongo's
// matched/modified counting (writing a value that is already there matches
// but does not modify). It backs the engine's tests.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/tasket/internal/models"
	"github.com/mmynk/tasket/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore holds user documents as nested bson values guarded by a
// single lock, making each UpdateUser call atomic like a mongo updateOne.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]bson.M // hex id -> document
}

// New creates an empty in-memory store.
func New() *MemoryStore {
	return &MemoryStore{docs: map[string]bson.M{}}
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) Ping(context.Context) error { return nil }

// InsertUser stores a new user document, enforcing email uniqueness the
// way a unique index would.
func (s *MemoryStore) InsertUser(_ context.Context, u *models.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.docs {
		if doc["email"] == u.Email {
			return "", storage.ErrDuplicateEmail
		}
	}

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	doc, err := toDocument(u)
	if err != nil {
		return "", err
	}

	id := u.ID.Hex()
	s.docs[id] = doc
	return id, nil
}

// FindUserByEmail retrieves the user owning email.
func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.docs {
		if doc["email"] == email {
			return decodeUser(doc)
		}
	}
	return nil, storage.ErrNotFound
}

// FindUserByID retrieves the user document by hex id.
func (s *MemoryStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return decodeUser(doc)
}

// UpdateUser applies the ordered path ops to the user's document under the
// store lock.
func (s *MemoryStore) UpdateUser(_ context.Context, id string, ops []storage.Op) (storage.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return storage.Result{}, nil
	}

	modified := false
	for _, op := range ops {
		changed, err := applyOp(doc, op)
		if err != nil {
			return storage.Result{}, err
		}
		modified = modified || changed
	}

	res := storage.Result{Matched: 1}
	if modified {
		res.Modified = 1
	}
	return res, nil
}

func applyOp(doc bson.M, op storage.Op) (bool, error) {
	switch o := op.(type) {
	case storage.Set:
		v, err := toValue(o.Value)
		if err != nil {
			return false, err
		}
		return setPath(doc, o.Path, v), nil
	case storage.Unset:
		return unsetPath(doc, o.Path), nil
	case storage.Rename:
		v, ok := getPath(doc, o.Path)
		if !ok {
			return false, nil
		}
		unsetPath(doc, o.Path)
		setPath(doc, o.NewPath, v)
		return true, nil
	case storage.Push:
		v, err := toValue(o.Value)
		if err != nil {
			return false, err
		}
		return pushPath(doc, o.Path, v), nil
	case storage.PullEqual:
		v, err := toValue(o.Value)
		if err != nil {
			return false, err
		}
		return pullPath(doc, o.Path, v), nil
	default:
		return false, fmt.Errorf("unsupported op %T", op)
	}
}

// navigate walks all but the last path segment and returns the container
// holding the final segment. create controls whether missing intermediate
// map fields are materialized, matching $set behavior.
func navigate(doc bson.M, path string, create bool) (container any, last string, ok bool) {
	segments := strings.Split(path, ".")
	var cur any = doc
	for _, seg := range segments[:len(segments)-1] {
		switch c := cur.(type) {
		case bson.M:
			next, exists := c[seg]
			if !exists {
				if !create {
					return nil, "", false
				}
				next = bson.M{}
				c[seg] = next
			}
			cur = next
		case primitive.A:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, "", false
			}
			cur = c[idx]
		default:
			return nil, "", false
		}
	}
	return cur, segments[len(segments)-1], true
}

func getPath(doc bson.M, path string) (any, bool) {
	container, last, ok := navigate(doc, path, false)
	if !ok {
		return nil, false
	}
	switch c := container.(type) {
	case bson.M:
		v, exists := c[last]
		return v, exists
	case primitive.A:
		idx, err := strconv.Atoi(last)
		if err != nil || idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	}
	return nil, false
}

func setPath(doc bson.M, path string, value any) bool {
	container, last, ok := navigate(doc, path, true)
	if !ok {
		return false
	}
	switch c := container.(type) {
	case bson.M:
		if old, exists := c[last]; exists && reflect.DeepEqual(old, value) {
			return false
		}
		c[last] = value
		return true
	case primitive.A:
		idx, err := strconv.Atoi(last)
		if err != nil || idx < 0 || idx >= len(c) {
			return false
		}
		if reflect.DeepEqual(c[idx], value) {
			return false
		}
		c[idx] = value
		return true
	}
	return false
}

func unsetPath(doc bson.M, path string) bool {
	container, last, ok := navigate(doc, path, false)
	if !ok {
		return false
	}
	c, ok := container.(bson.M)
	if !ok {
		return false
	}
	if _, exists := c[last]; !exists {
		return false
	}
	delete(c, last)
	return true
}

func pushPath(doc bson.M, path string, value any) bool {
	container, last, ok := navigate(doc, path, true)
	if !ok {
		return false
	}
	c, ok := container.(bson.M)
	if !ok {
		return false
	}
	switch seq := c[last].(type) {
	case nil:
		c[last] = primitive.A{value}
	case primitive.A:
		c[last] = append(seq, value)
	default:
		return false
	}
	return true
}

func pullPath(doc bson.M, path string, value any) bool {
	container, last, ok := navigate(doc, path, false)
	if !ok {
		return false
	}
	c, ok := container.(bson.M)
	if !ok {
		return false
	}
	seq, ok := c[last].(primitive.A)
	if !ok {
		return false
	}

	kept := make(primitive.A, 0, len(seq))
	for _, elem := range seq {
		if !reflect.DeepEqual(elem, value) {
			kept = append(kept, elem)
		}
	}
	if len(kept) == len(seq) {
		return false
	}
	c[last] = kept
	return true
}

// toDocument converts a struct to the nested bson.M/primitive.A form the
// store mutates, running it through the same codecs the mongo backend uses
// (so Event/Assignment tombstones become the sentinel string here too).
func toDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// toValue normalizes an op value through the bson codecs so stored values
// compare and decode identically to the mongo backend's.
func toValue(v any) (any, error) {
	doc, err := toDocument(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

func decodeUser(doc bson.M) (*models.User, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	var u models.User
	if err := bson.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}
