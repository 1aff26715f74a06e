package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitlog/exercise-tracker/internal/model"
	"github.com/fitlog/exercise-tracker/internal/store"
)

func date(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func addEntry(t *testing.T, s *Store, userID, description string, duration float64, day string) *model.LogEntry {
	t.Helper()
	entry, err := s.CreateLogEntry(context.Background(), description, duration, date(day))
	require.NoError(t, err)
	_, err = s.AppendLogRef(context.Background(), userID, entry.ID)
	require.NoError(t, err)
	return entry
}

func TestCreateUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.LogRefs)

	_, err = s.CreateUser(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	// Exact match only: a different case is a different username.
	_, err = s.CreateUser(ctx, "Alice")
	require.NoError(t, err)
}

func TestCreateUserConcurrent(t *testing.T) {
	s := New()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateUser(ctx, "alice")
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var ok, conflicts int
	for err := range errCh {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, store.ErrUsernameTaken)
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestListUsersInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := s.CreateUser(ctx, name)
		require.NoError(t, err)
	}

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "carol", users[2].Username)
}

func TestGetUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)

	got, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.GetUser(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAppendLogRef(t *testing.T) {
	s := New()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)

	entry, err := s.CreateLogEntry(ctx, "run", 30, date("2024-03-01"))
	require.NoError(t, err)

	updated, err := s.AppendLogRef(ctx, user.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{entry.ID}, updated.LogRefs)

	_, err = s.AppendLogRef(ctx, "nope", entry.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAppendLogRefConcurrentAppendsCompose(t *testing.T) {
	s := New()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := s.CreateLogEntry(ctx, "run", 1, date("2024-03-01"))
			assert.NoError(t, err)
			_, err = s.AppendLogRef(ctx, user.ID, entry.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := s.FindLogEntriesForUser(ctx, user.ID, store.LogFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, n)
}

func TestFindLogEntriesForUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)

	addEntry(t, s, user.ID, "run", 30, "2024-03-03")
	addEntry(t, s, user.ID, "swim", 45, "2024-03-01")
	addEntry(t, s, user.ID, "bike", 60, "2024-03-05")
	addEntry(t, s, user.ID, "row", 20, "2024-03-02")

	t.Run("no filter returns all in append order", func(t *testing.T) {
		entries, err := s.FindLogEntriesForUser(ctx, user.ID, store.LogFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, "run", entries[0].Description)
		assert.Equal(t, "swim", entries[1].Description)
		assert.Equal(t, "bike", entries[2].Description)
		assert.Equal(t, "row", entries[3].Description)
	})

	t.Run("date window is inclusive and preserves append order", func(t *testing.T) {
		from, to := date("2024-03-01"), date("2024-03-03")
		entries, err := s.FindLogEntriesForUser(ctx, user.ID, store.LogFilter{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "run", entries[0].Description)
		assert.Equal(t, "swim", entries[1].Description)
		assert.Equal(t, "row", entries[2].Description)
	})

	t.Run("limit truncates to the first matches", func(t *testing.T) {
		entries, err := s.FindLogEntriesForUser(ctx, user.ID, store.LogFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "run", entries[0].Description)
		assert.Equal(t, "swim", entries[1].Description)
	})

	t.Run("limit applies after the date filter", func(t *testing.T) {
		from, to := date("2024-03-01"), date("2024-03-02")
		entries, err := s.FindLogEntriesForUser(ctx, user.ID, store.LogFilter{From: &from, To: &to, Limit: 1})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "swim", entries[0].Description)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.FindLogEntriesForUser(ctx, "nope", store.LogFilter{})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestFindLogEntriesSkipsOrphanedRefs(t *testing.T) {
	s := New()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)

	kept := addEntry(t, s, user.ID, "run", 30, "2024-03-01")
	dropped := addEntry(t, s, user.ID, "swim", 45, "2024-03-02")
	s.RemoveLogEntry(dropped.ID)

	entries, err := s.FindLogEntriesForUser(ctx, user.ID, store.LogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, kept.ID, entries[0].ID)
}

func TestCreateLogEntryNormalizesDate(t *testing.T) {
	s := New()

	entry, err := s.CreateLogEntry(context.Background(), "run", 30,
		time.Date(2024, 3, 1, 17, 45, 12, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, date("2024-03-01"), entry.Date)
}

func TestReset(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)

	s.Reset()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
