// Package engine implements the nested-document mutation engine. Every
// operation works on the single document owned by the authenticated user:
// fetch the document, locate the target group/event/assignment, validate
// the proposed change, issue one or two path-addressed writes, and verify
// the store reports the expected matched/modified counts.
//
// The store offers no transaction across calls, so read-modify-write
// sequences (whole-sequence rewrites, the two-phase delete) can race under
// concurrent writers to the same group. That is an accepted last-writer-wins
// gap, not something this engine masks; see DESIGN.md.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/tasket/internal/auth"
	"github.com/mmynk/tasket/internal/models"
	"github.com/mmynk/tasket/internal/storage"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrDuplicateGroup     = errors.New("group with this name already exists")
	ErrInvalidGroupName   = errors.New("group name is invalid")
	ErrEmailExists        = errors.New("user with specified email already exists")
	ErrNoAttributes       = errors.New("no update attributes specified")
	ErrWriteFailed        = errors.New("write failed")
)

// Engine mutates user documents through a storage.Store. It holds no
// per-request state: every operation takes the authenticated user id
// explicitly, never carrying a credential between calls.
type Engine struct {
	store storage.Store
	log   *slog.Logger
}

// New creates an engine over the given store.
func New(store storage.Store) *Engine {
	return &Engine{store: store, log: slog.Default()}
}

// SignUp registers a new account and returns the assigned user id.
//
// Email uniqueness is a read-then-insert pre-check: two concurrent signups
// with the same email can both pass it. A backend-level unique index
// upgrades the guarantee (the store surfaces that as ErrDuplicateEmail).
func (e *Engine) SignUp(ctx context.Context, email, password string) (string, error) {
	if _, err := e.store.FindUserByEmail(ctx, email); err == nil {
		return "", ErrEmailExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	user := &models.User{
		Email:    email,
		Password: digest,
		Settings: map[string]any{},
		Groups:   map[string]models.Group{},
	}
	id, err := e.store.InsertUser(ctx, user)
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return "", ErrEmailExists
	}
	if err != nil {
		return "", err
	}

	e.log.Info("user created", "user_id", id)
	return id, nil
}

// LogIn verifies email/password and returns the owning user id.
func (e *Engine) LogIn(ctx context.Context, email, password string) (string, error) {
	user, err := e.store.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	if err := auth.CheckPassword(password, user.Password); err != nil {
		return "", err
	}
	return user.ID.Hex(), nil
}

// GetUser returns the user's document with the password stripped and any
// lingering tombstones filtered out of every sequence.
func (e *Engine) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := e.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	for name, group := range user.Groups {
		group.Events = group.LiveEvents()
		group.Assignments = group.LiveAssignments()
		user.Groups[name] = group
	}
	return user, nil
}

// fetchUser is the user document accessor: a single fresh read, no caching.
func (e *Engine) fetchUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := e.store.FindUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func writeFailed(action string) error {
	return fmt.Errorf("%s failed: %w", action, ErrWriteFailed)
}
