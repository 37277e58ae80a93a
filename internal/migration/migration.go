// Package migration applies the numbered SQL files behind the SQL slots and
// records the applied version in a one-row schema_version table.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Dialect selects the bind-parameter style of the target database.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`

// Migration is one NNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect Dialect
}

func NewRunner(db *sql.DB, migrationFS fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, fs: migrationFS, dialect: dialect}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Runner) writeVersion(ctx context.Context, db execer, version int) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("clear schema version: %w", err)
	}
	insert := "INSERT INTO schema_version (version) VALUES (" + r.dialect.placeholder(1) + ")"
	if _, err := db.ExecContext(ctx, insert, version); err != nil {
		return fmt.Errorf("write schema version %d: %w", version, err)
	}
	return nil
}

// GetCurrentVersion returns the applied version. A fresh database is at 0.
func (r *Runner) GetCurrentVersion(ctx context.Context) (int, error) {
	if _, err := r.db.ExecContext(ctx, createVersionTable); err != nil {
		return 0, fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	switch err := r.db.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func (r *Runner) SetVersion(ctx context.Context, version int) error {
	if _, err := r.db.ExecContext(ctx, createVersionTable); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	return r.writeVersion(ctx, r.db, version)
}

func parseFileName(name string) (int, string, error) {
	prefix, rest, ok := strings.Cut(name, "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename %s, want NNN_name.sql", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in %s: %w", name, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in %s: must be at least 1", name)
	}
	return version, strings.TrimSuffix(rest, ".sql"), nil
}

// ReadMigrationFiles loads every .sql file, ordered by version.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, name, err := parseFileName(entry.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.fs, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(body)})
	}

	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}
	return migrations, nil
}

func (r *Runner) latest() (int, error) {
	migrations, err := r.ReadMigrationFiles()
	if err != nil || len(migrations) == 0 {
		return 0, err
	}
	return migrations[len(migrations)-1].Version, nil
}

// Status reports the applied and newest available versions.
func (r *Runner) Status(ctx context.Context) (current, latest int, err error) {
	if current, err = r.GetCurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	if latest, err = r.latest(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

// ValidateVersion fails on a database migrated by a newer questlog.
func (r *Runner) ValidateVersion(ctx context.Context) error {
	current, latest, err := r.Status(ctx)
	if err != nil {
		return err
	}
	return checkNotNewer(current, latest)
}

func checkNotNewer(current, latest int) error {
	if current > latest {
		return fmt.Errorf("database schema version %d is newer than supported version %d, upgrade questlog", current, latest)
	}
	return nil
}

// ApplyMigrations runs every pending migration in its own transaction and
// returns how many were applied. progress may be nil.
func (r *Runner) ApplyMigrations(ctx context.Context, progress func(string)) (int, error) {
	if progress == nil {
		progress = func(string) {}
	}

	current, err := r.GetCurrentVersion(ctx)
	if err != nil {
		return 0, err
	}
	migrations, err := r.ReadMigrationFiles()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		progress("No migration files found")
		return 0, nil
	}
	if err := checkNotNewer(current, migrations[len(migrations)-1].Version); err != nil {
		return 0, err
	}

	idx := slices.IndexFunc(migrations, func(m Migration) bool { return m.Version > current })
	if idx < 0 {
		progress(fmt.Sprintf("Schema is current at version %d", current))
		return 0, nil
	}
	pending := migrations[idx:]
	progress(fmt.Sprintf("Migrating schema from version %d to %d", current, pending[len(pending)-1].Version))

	start := time.Now()
	for n, m := range pending {
		if err := r.apply(ctx, m); err != nil {
			return n, err
		}
		progress(fmt.Sprintf("  ✓ %03d %s", m.Version, m.Name))
	}
	progress(fmt.Sprintf("Schema migrated in %v", time.Since(start).Round(time.Millisecond)))
	return len(pending), nil
}

func (r *Runner) apply(ctx context.Context, m Migration) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
	}
	if err = r.writeVersion(ctx, tx, m.Version); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.Version, err)
	}
	return nil
}
