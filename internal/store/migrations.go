package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

// Migration is one forward-only schema change.
type Migration struct {
	Version     int
	Description string
	Up          func(ctx context.Context, tx *sqlx.Tx) error
}

// migrations is the ordered list of schema migrations. Versions are
// sequential starting from 1 and are never rewritten once released.
var migrations = []Migration{
	{
		Version:     1,
		Description: "create projects and todos",
		Up: func(ctx context.Context, tx *sqlx.Tx) error {
			return execAll(ctx, tx, 1,
				`CREATE TABLE projects (
					id          INTEGER PRIMARY KEY AUTOINCREMENT,
					name        TEXT NOT NULL,
					description TEXT,
					color       TEXT,
					created_at  DATETIME NOT NULL,
					updated_at  DATETIME NOT NULL
				)`,
				`CREATE TABLE todos (
					id                INTEGER PRIMARY KEY AUTOINCREMENT,
					project_id        INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
					parent_id         INTEGER REFERENCES todos(id) ON DELETE CASCADE,
					title             TEXT NOT NULL,
					description       TEXT,
					status            INTEGER NOT NULL DEFAULT 0,
					priority          INTEGER NOT NULL DEFAULT 1,
					due_date          DATETIME,
					estimated_minutes INTEGER,
					location          TEXT,
					url               TEXT,
					created_at        DATETIME NOT NULL,
					updated_at        DATETIME NOT NULL,
					completed_at      DATETIME
				)`,
			)
		},
	},
	{
		Version:     2,
		Description: "index todo lookups",
		Up: func(ctx context.Context, tx *sqlx.Tx) error {
			return execAll(ctx, tx, 2,
				`CREATE INDEX idx_todos_project_id ON todos(project_id)`,
				`CREATE INDEX idx_todos_parent_id ON todos(parent_id)`,
				`CREATE INDEX idx_todos_status ON todos(status)`,
				`CREATE INDEX idx_todos_priority ON todos(priority)`,
				`CREATE INDEX idx_todos_due_date ON todos(due_date)`,
			)
		},
	},
}

func execAll(ctx context.Context, tx *sqlx.Tx, version int, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration v%d statement: %w", version, err)
		}
	}
	return nil
}

// Migrations returns a copy of the built-in migration list.
func Migrations() []Migration {
	out := make([]Migration, len(migrations))
	copy(out, migrations)
	return out
}

// CurrentSchemaVersion is the version a fully migrated database reports.
func CurrentSchemaVersion() int {
	return maxMigrationVersion(migrations)
}

// ApplyMigrations brings the schema up to date and returns how many
// migrations were applied. Running it on an up-to-date database is a no-op.
func (s *SQLiteStore) ApplyMigrations(ctx context.Context) (int, error) {
	return s.runMigrations(ctx, migrations)
}

// SchemaVersion returns the highest applied migration version, or 0 for a
// database that has never been migrated.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	if err := s.ensureMigrationTable(ctx); err != nil {
		return 0, err
	}
	return readSchemaVersion(ctx, s.db)
}

func (s *SQLiteStore) runMigrations(ctx context.Context, list []Migration) (int, error) {
	ordered := make([]Migration, len(list))
	copy(ordered, list)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Version == ordered[i-1].Version {
			return 0, fmt.Errorf("%w: duplicate version %d", ErrMigration, ordered[i].Version)
		}
	}

	if err := s.ensureMigrationTable(ctx); err != nil {
		return 0, err
	}
	current, err := readSchemaVersion(ctx, s.db)
	if err != nil {
		return 0, err
	}
	if latest := maxMigrationVersion(ordered); current > latest {
		return 0, fmt.Errorf("%w: database schema v%d is newer than supported v%d",
			ErrMigration, current, latest)
	}

	applied := 0
	for _, m := range ordered {
		if m.Version <= current {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return applied, err
		}
		s.logger.Debug("applied migration", "version", m.Version, "description", m.Description)
		applied++
	}
	return applied, nil
}

// applyMigration runs one migration and records it in the same transaction.
func (s *SQLiteStore) applyMigration(ctx context.Context, m Migration) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin v%d: %w", ErrMigration, m.Version, err)
	}
	defer tx.Rollback()

	if err := m.Up(ctx, tx); err != nil {
		return fmt.Errorf("%w: v%d (%s): %w", ErrMigration, m.Version, m.Description, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`,
		m.Version, m.Description, s.now().UTC())
	if err != nil {
		return fmt.Errorf("%w: record v%d: %w", ErrMigration, m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit v%d: %w", ErrMigration, m.Version, err)
	}
	return nil
}

func (s *SQLiteStore) ensureMigrationTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version     INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at  DATETIME NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("%w: create schema_migrations: %w", ErrMigration, err)
	}
	return nil
}

func readSchemaVersion(ctx context.Context, q sqlx.QueryerContext) (int, error) {
	var version sql.NullInt64
	err := sqlx.GetContext(ctx, q, &version, `SELECT MAX(version) FROM schema_migrations`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: read schema version: %w", ErrMigration, err)
	}
	return int(version.Int64), nil
}

func maxMigrationVersion(list []Migration) int {
	highest := 0
	for _, m := range list {
		if m.Version > highest {
			highest = m.Version
		}
	}
	return highest
}

// AppliedMigration is a row of the schema_migrations bookkeeping table.
type AppliedMigration struct {
	Version     int       `db:"version"`
	Description string    `db:"description"`
	AppliedAt   time.Time `db:"applied_at"`
}

// AppliedMigrations lists the recorded migrations in version order.
func (s *SQLiteStore) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	if err := s.ensureMigrationTable(ctx); err != nil {
		return nil, err
	}
	var rows []AppliedMigration
	err := s.db.SelectContext(ctx, &rows,
		`SELECT version, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("%w: list applied migrations: %w", ErrMigration, err)
	}
	return rows, nil
}
