// Package memory provides the default in-process Store. All state lives in
// maps guarded by a single RWMutex, which also serializes the
// check-then-insert behind the username uniqueness constraint and keeps
// concurrent ref appends from losing updates.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fitlog/exercise-tracker/internal/model"
	"github.com/fitlog/exercise-tracker/internal/store"
)

// Store is the in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	users     map[string]*model.User
	userOrder []string
	byName    map[string]string

	entries map[string]*model.LogEntry
}

var _ store.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		users:   make(map[string]*model.User),
		byName:  make(map[string]string),
		entries: make(map[string]*model.LogEntry),
	}
}

func (s *Store) CreateUser(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[username]; taken {
		return nil, store.ErrUsernameTaken
	}

	user := &model.User{
		ID:       uuid.New().String(),
		Username: username,
	}
	s.users[user.ID] = user
	s.userOrder = append(s.userOrder, user.ID)
	s.byName[username] = user.ID

	return cloneUser(user), nil
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		users = append(users, *cloneUser(s.users[id]))
	}
	return users, nil
}

func (s *Store) GetUser(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (s *Store) CreateLogEntry(_ context.Context, description string, duration float64, date time.Time) (*model.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &model.LogEntry{
		ID:          uuid.New().String(),
		Description: description,
		Duration:    duration,
		Date:        model.NormalizeDate(date),
	}
	s.entries[entry.ID] = entry

	cloned := *entry
	return &cloned, nil
}

func (s *Store) AppendLogRef(_ context.Context, userID, entryID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	user.LogRefs = append(user.LogRefs, entryID)

	return cloneUser(user), nil
}

func (s *Store) FindLogEntriesForUser(_ context.Context, userID string, f store.LogFilter) ([]model.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	matches := make([]model.LogEntry, 0, len(user.LogRefs))
	for _, ref := range user.LogRefs {
		entry, ok := s.entries[ref]
		if !ok {
			// Orphaned ref; tolerated, skip.
			continue
		}
		if f.From != nil && f.To != nil {
			if entry.Date.Before(*f.From) || entry.Date.After(*f.To) {
				continue
			}
		}
		matches = append(matches, *entry)
		if f.Limit > 0 && len(matches) == f.Limit {
			break
		}
	}

	return matches, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Reset drops all state. Test fixture only.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]*model.User)
	s.userOrder = nil
	s.byName = make(map[string]string)
	s.entries = make(map[string]*model.LogEntry)
}

// RemoveLogEntry deletes a stored entry without touching refs that point at
// it, leaving those refs orphaned. Test fixture only.
func (s *Store) RemoveLogEntry(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
}

func cloneUser(u *model.User) *model.User {
	refs := make([]string, len(u.LogRefs))
	copy(refs, u.LogRefs)
	return &model.User{
		ID:       u.ID,
		Username: u.Username,
		LogRefs:  refs,
	}
}
