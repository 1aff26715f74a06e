package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitlog/exercise-tracker/internal/errs"
	"github.com/fitlog/exercise-tracker/internal/model"
	"github.com/fitlog/exercise-tracker/internal/store"
)

// ExerciseService implements the tracker's operations against the store.
type ExerciseService struct {
	store  store.Store
	logger *zerolog.Logger
}

// NewExerciseService constructs an ExerciseService.
func NewExerciseService(s store.Store, logger *zerolog.Logger) *ExerciseService {
	return &ExerciseService{store: s, logger: logger}
}

// AddExerciseResult pairs the owning user with the entry just created, so
// the handler can build the flattened response shape.
type AddExerciseResult struct {
	User  *model.User
	Entry *model.LogEntry
}

// LogQuery is a validated "get a user's log" request. From and To are both
// set or both nil; Limit <= 0 means unlimited.
type LogQuery struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// LogResult is the answer to a LogQuery: the user plus their entries in
// append order, filtered per the query.
type LogResult struct {
	User    *model.User
	Entries []model.LogEntry
}

// CreateUser creates a new user. A duplicate username maps to a 400 whose
// message names the uniqueness violation.
func (s *ExerciseService) CreateUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.store.CreateUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return nil, errs.NewBadRequestError("expected `username` to be unique")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user created")

	return user, nil
}

// ListUsers returns all users in insertion order.
func (s *ExerciseService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// AddExercise creates a log entry and appends its id to the owning user's
// refs. The two writes are not transactional: a failure between them leaves
// an orphan entry, which the log query tolerates.
func (s *ExerciseService) AddExercise(ctx context.Context, userID, description string, duration float64, date *time.Time) (*AddExerciseResult, error) {
	entryDate := model.Today()
	if date != nil {
		entryDate = model.NormalizeDate(*date)
	}

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	entry, err := s.store.CreateLogEntry(ctx, description, duration, entryDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create log entry: %w", err)
	}

	user, err := s.store.AppendLogRef(ctx, userID, entry.ID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to append log ref: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("entry_id", entry.ID).
		Float64("duration", entry.Duration).
		Msg("exercise logged")

	return &AddExerciseResult{User: user, Entry: entry}, nil
}

// GetLog executes a validated log query: look up the user, then fetch their
// entries in append order with the date window and limit applied.
func (s *ExerciseService) GetLog(ctx context.Context, q LogQuery) (*LogResult, error) {
	user, err := s.store.GetUser(ctx, q.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	entries, err := s.store.FindLogEntriesForUser(ctx, user.ID, store.LogFilter{
		From:  q.From,
		To:    q.To,
		Limit: q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find log entries: %w", err)
	}

	return &LogResult{User: user, Entries: entries}, nil
}
