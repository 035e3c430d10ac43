// Package storage provides abstractions for the user document store.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tasket/internal/models"
)

var (
	// ErrNotFound is returned when no document matches the lookup.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateEmail is returned by InsertUser when the backend enforces
	// email uniqueness (the engine also pre-checks, see DESIGN.md).
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUnavailable wraps connection-level failures.
	ErrUnavailable = errors.New("document store unavailable")
)

// Result reports how many documents an update matched and modified. A
// matched-but-unmodified update means the targeted fields already held the
// written values.
type Result struct {
	Matched  int64
	Modified int64
}

// Store defines the interface for user document persistence. The store
// offers whole-document reads and path-addressed writes only; each
// UpdateUser call is atomic for its single document, with no cross-call
// atomicity. This abstraction allows swapping backends (MongoDB for
// serving, in-memory for tests) without changing the engine.
type Store interface {
	// InsertUser persists a new user document, assigning u.ID, and
	// returns the id in its hex form.
	InsertUser(ctx context.Context, u *models.User) (string, error)

	// FindUserByEmail retrieves the user owning the given email.
	// Returns ErrNotFound if no such user exists.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// FindUserByID retrieves the user document by hex id.
	// Returns ErrNotFound if no such user exists.
	FindUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUser applies the ordered path ops to the user's document in
	// one atomic write and reports matched/modified counts. A missing
	// document is not an error; it reports as Result{0, 0}.
	UpdateUser(ctx context.Context, id string, ops []Op) (Result, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
