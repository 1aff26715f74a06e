package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitlog/exercise-tracker/internal/model"
	"github.com/fitlog/exercise-tracker/internal/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func date(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func expectGetUser(mock sqlmock.Sqlmock, id, username string, refs ...string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username FROM users WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(id, username))

	refRows := sqlmock.NewRows([]string{"log_entry_id"})
	for _, ref := range refs {
		refRows.AddRow(ref)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT log_entry_id FROM user_log_refs WHERE user_id = $1 ORDER BY seq`)).
		WithArgs(id).
		WillReturnRows(refRows)
}

func TestCreateUser(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, username) VALUES ($1, $2)`)).
		WithArgs(sqlmock.AnyArg(), "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := s.CreateUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, username) VALUES ($1, $2)`)).
		WithArgs(sqlmock.AnyArg(), "alice").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := s.CreateUser(context.Background(), "alice")
	assert.ErrorIs(t, err, store.ErrUsernameTaken)
}

func TestListUsers(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username FROM users ORDER BY ord`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow("u1", "alice").
			AddRow("u2", "bob"))

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestGetUser(t *testing.T) {
	s, mock := newMockStore(t)

	expectGetUser(mock, "u1", "alice", "e1", "e2")

	user, err := s.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, []string{"e1", "e2"}, user.LogRefs)
}

func TestGetUserNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username FROM users WHERE id = $1`)).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestCreateLogEntry(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO log_entries (id, description, duration, entry_date) VALUES ($1, $2, $3, $4)`)).
		WithArgs(sqlmock.AnyArg(), "run", 30.0, date("2024-03-01")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry, err := s.CreateLogEntry(context.Background(), "run", 30, date("2024-03-01").Add(9*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, date("2024-03-01"), entry.Date)
}

func TestAppendLogRef(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_log_refs (user_id, log_entry_id) VALUES ($1, $2)`)).
		WithArgs("u1", "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectGetUser(mock, "u1", "alice", "e1")

	user, err := s.AppendLogRef(context.Background(), "u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, user.LogRefs)
}

func TestAppendLogRefUnknownUser(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_log_refs (user_id, log_entry_id) VALUES ($1, $2)`)).
		WithArgs("nope", "e1").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "user_log_refs_user_id_fkey"})

	_, err := s.AppendLogRef(context.Background(), "nope", "e1")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestFindLogEntriesForUser(t *testing.T) {
	s, mock := newMockStore(t)

	expectGetUser(mock, "u1", "alice", "e1", "e2")
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT e.id, e.description, e.duration, e.entry_date FROM user_log_refs r JOIN log_entries e ON e.id = r.log_entry_id WHERE r.user_id = $1 ORDER BY r.seq`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "duration", "entry_date"}).
			AddRow("e1", "run", 30.0, date("2024-03-01")).
			AddRow("e2", "swim", 45.0, date("2024-03-02")))

	entries, err := s.FindLogEntriesForUser(context.Background(), "u1", store.LogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "run", entries[0].Description)
	assert.Equal(t, "swim", entries[1].Description)
}

func TestFindLogEntriesForUserWithWindowAndLimit(t *testing.T) {
	s, mock := newMockStore(t)

	from, to := date("2024-03-01"), date("2024-03-05")

	expectGetUser(mock, "u1", "alice", "e1")
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT e.id, e.description, e.duration, e.entry_date FROM user_log_refs r JOIN log_entries e ON e.id = r.log_entry_id WHERE r.user_id = $1 AND e.entry_date BETWEEN $2 AND $3 ORDER BY r.seq LIMIT 2`)).
		WithArgs("u1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "duration", "entry_date"}).
			AddRow("e1", "run", 30.0, from))

	entries, err := s.FindLogEntriesForUser(context.Background(), "u1", store.LogFilter{From: &from, To: &to, Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "run", entries[0].Description)
}

func TestFindLogEntriesForUserUnknownUser(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username FROM users WHERE id = $1`)).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := s.FindLogEntriesForUser(context.Background(), "nope", store.LogFilter{})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestListUsersQueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username FROM users ORDER BY ord`)).
		WillReturnError(errors.New("boom"))

	_, err := s.ListUsers(context.Background())
	assert.Error(t, err)
}
