// Package postgres implements the Store on PostgreSQL.
//
// It runs over database/sql with the pgx stdlib driver. The username
// uniqueness constraint is enforced by the unique index on users.username,
// and append order of log refs is kept by the bigserial seq column on
// user_log_refs, so concurrent appends compose without coordination.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fitlog/exercise-tracker/internal/config"
	"github.com/fitlog/exercise-tracker/internal/model"
	"github.com/fitlog/exercise-tracker/internal/store"
)

//go:embed schema.sql
var schema string

const pingTimeout = 10 * time.Second

// Store is the PostgreSQL implementation of store.Store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New opens a connection pool from config, pings it, and ensures the schema
// exists. The DDL is idempotent, so startup on an existing database is a
// no-op.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	hostPort := net.JoinHostPort(cfg.Database.Host, strconv.Itoa(cfg.Database.Port))

	// URL-encode the password so characters like '@' do not break the DSN.
	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.Database.User,
		url.QueryEscape(cfg.Database.Password),
		hostPort,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := NewWithDB(db)
	if err := s.bootstrap(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection. Schema bootstrap is skipped; used
// by tests.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) bootstrap(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{
		ID:       uuid.New().String(),
		Username: username,
	}

	query := `INSERT INTO users (id, username) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, user.ID, user.Username); err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, username FROM users ORDER BY ord`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err = rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, username FROM users WHERE id = $1`

	user := &model.User{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", id, err)
	}

	refsQuery := `SELECT log_entry_id FROM user_log_refs WHERE user_id = $1 ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, refsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query log refs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref string
		if err = rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan log ref: %w", err)
		}
		user.LogRefs = append(user.LogRefs, ref)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log refs: %w", err)
	}

	return user, nil
}

func (s *Store) CreateLogEntry(ctx context.Context, description string, duration float64, date time.Time) (*model.LogEntry, error) {
	entry := &model.LogEntry{
		ID:          uuid.New().String(),
		Description: description,
		Duration:    duration,
		Date:        model.NormalizeDate(date),
	}

	query := `INSERT INTO log_entries (id, description, duration, entry_date) VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, entry.ID, entry.Description, entry.Duration, entry.Date); err != nil {
		return nil, fmt.Errorf("failed to create log entry: %w", err)
	}

	return entry, nil
}

func (s *Store) AppendLogRef(ctx context.Context, userID, entryID string) (*model.User, error) {
	query := `INSERT INTO user_log_refs (user_id, log_entry_id) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, userID, entryID); err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to append log ref: %w", err)
	}

	return s.GetUser(ctx, userID)
}

func (s *Store) FindLogEntriesForUser(ctx context.Context, userID string, f store.LogFilter) ([]model.LogEntry, error) {
	// The contract distinguishes "unknown user" from "no entries".
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	// Inner join drops refs whose entry is missing.
	queryBuilder := squirrel.
		Select("e.id",
			"e.description",
			"e.duration",
			"e.entry_date").
		From("user_log_refs r").
		Join("log_entries e ON e.id = r.log_entry_id").
		Where(squirrel.Eq{"r.user_id": userID})

	if f.From != nil && f.To != nil {
		queryBuilder = queryBuilder.Where("e.entry_date BETWEEN ? AND ?", *f.From, *f.To)
	}

	queryBuilder = queryBuilder.OrderBy("r.seq").
		PlaceholderFormat(squirrel.Dollar)

	if f.Limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(f.Limit))
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query log entries: %w", err)
	}
	defer rows.Close()

	var entries []model.LogEntry
	for rows.Next() {
		var entry model.LogEntry
		if err = rows.Scan(&entry.ID, &entry.Description, &entry.Duration, &entry.Date); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entry.Date = model.NormalizeDate(entry.Date)
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log entries: %w", err)
	}

	return entries, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
