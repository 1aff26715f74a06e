// Package store declares the persistence contract for users and log
// entries, shared by the in-memory and postgres implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/fitlog/exercise-tracker/internal/model"
)

var (
	// ErrUsernameTaken is returned by CreateUser when another user already
	// holds the exact username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// LogFilter restricts FindLogEntriesForUser. The date window applies only
// when both bounds are set; bounds are inclusive and date-only. Limit <= 0
// means unlimited.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// Store is the persistence layer for the tracker.
//
// Implementations must make two sequences atomic with respect to concurrent
// callers: the check-then-insert behind CreateUser's uniqueness constraint,
// and the ref append in AppendLogRef (concurrent appends to one user must
// compose; last-write-wins on LogRefs is not acceptable).
type Store interface {
	// CreateUser stores a new user with an empty ref list. Fails with
	// ErrUsernameTaken on an exact duplicate username.
	CreateUser(ctx context.Context, username string) (*model.User, error)

	// ListUsers returns all users in insertion order.
	ListUsers(ctx context.Context) ([]model.User, error)

	// GetUser fails with ErrUserNotFound for an unknown id.
	GetUser(ctx context.Context, id string) (*model.User, error)

	// CreateLogEntry stores a new entry. The caller resolves the date
	// default before the call; date must already be normalized.
	CreateLogEntry(ctx context.Context, description string, duration float64, date time.Time) (*model.LogEntry, error)

	// AppendLogRef appends entryID to the user's ref list and returns the
	// updated user. Fails with ErrUserNotFound for an unknown user.
	AppendLogRef(ctx context.Context, userID, entryID string) (*model.User, error)

	// FindLogEntriesForUser returns the user's entries in ref (append)
	// order, filtered per f. Refs whose entry is missing are skipped.
	// Fails with ErrUserNotFound for an unknown user.
	FindLogEntriesForUser(ctx context.Context, userID string, f LogFilter) ([]model.LogEntry, error)

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases storage resources.
	Close() error
}
