package store

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const defaultBusyTimeout = 5 * time.Second

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db     *sqlx.DB
	path   string
	now    func() time.Time
	logger *log.Logger
}

// Option configures a SQLiteStore.
type Option func(*options)

type options struct {
	busyTimeout time.Duration
	now         func() time.Time
	logger      *log.Logger
}

// WithBusyTimeout sets how long a writer waits for a lock held by another
// process before the operation fails with ErrStorage.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath. Foreign
// keys are enforced on the connection. Schema migrations are not applied;
// call ApplyMigrations.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := options{
		busyTimeout: defaultBusyTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if dbPath == "" {
		return nil, fmt.Errorf("opening sqlite db: %w: empty path", ErrStorage)
	}

	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, storageErr("creating database directory", err)
		}
	}

	db, err := sqlx.Open("sqlite", buildDSN(dbPath, o.busyTimeout))
	if err != nil {
		return nil, storageErr("opening sqlite db", err)
	}

	// One connection: an in-memory database lives and dies with its
	// connection, and SQLite admits a single writer anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storageErr("connecting to sqlite db", err)
	}

	o.logger.Debug("opened database", "path", dbPath)
	return &SQLiteStore{db: db, path: dbPath, now: o.now, logger: o.logger}, nil
}

// buildDSN sets the per-connection pragmas through the modernc DSN so they
// survive reconnects. The path is percent-encoded; SQLite decodes URI
// filenames, so '#', '?' and '%' reach the filesystem unchanged.
func buildDSN(dbPath string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	name := dbPath
	if dbPath != MemoryPath {
		q.Add("_pragma", "journal_mode(WAL)")
		name = (&url.URL{Path: filepath.ToSlash(dbPath)}).EscapedPath()
	}
	q.Set("_time_format", "sqlite")
	return "file:" + name + "?" + q.Encode()
}

// Path returns the database location the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction. It commits when fn succeeds and
// rolls back otherwise.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("committing transaction", err)
	}
	return nil
}

// stamp returns the timestamp for a mutation of a row last updated at prev.
// The result is always strictly after prev.
func (s *SQLiteStore) stamp(prev time.Time) time.Time {
	now := s.now().UTC()
	if !now.After(prev) {
		now = prev.UTC().Add(time.Nanosecond)
	}
	return now
}
