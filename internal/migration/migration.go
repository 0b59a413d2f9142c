// Package migration applies the embedded NNN_name.sql schema files to the
// SQL slot backends and records the applied version in schema_version.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/logger"
)

// ErrSchemaTooNew means the database was migrated by a newer habitual.
var ErrSchemaTooNew = errors.New("database schema is newer than supported")

// Dialect selects the SQL flavour of the bookkeeping queries.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) placeholder() string {
	if d == DialectPostgres {
		return "$1"
	}
	return "?"
}

func (d Dialect) tableExistsQuery() string {
	if d == DialectPostgres {
		// Resolved through search_path, so the habitual schema is honoured
		return "SELECT count(*) FROM pg_catalog.pg_tables WHERE schemaname = ANY(current_schemas(false)) AND tablename = lower($1)"
	}
	return "SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?"
}

// Migration is one schema file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Status compares the database with the embedded migrations.
type Status struct {
	Current int
	Latest  int
	Pending []Migration
}

// Initialized reports whether any migration was ever applied.
func (s Status) Initialized() bool { return s.Current > 0 }

func (s Status) TooNew() bool { return s.Current > s.Latest }

type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect Dialect
}

func NewRunner(db *sql.DB, migrationFS fs.FS, dialect Dialect) *Runner {
	return &Runner{
		db:      db,
		fs:      migrationFS,
		dialect: dialect,
	}
}

func (r *Runner) ensureVersionTable() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return nil
}

// currentVersion is 0 for a fresh database.
func (r *Runner) currentVersion() (int, error) {
	if err := r.ensureVersionTable(); err != nil {
		return 0, err
	}
	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Migrations parses the schema files, sorted by version.
func (r *Runner) Migrations() ([]Migration, error) {
	files, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		m, err := r.parse(file.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

func (r *Runner) parse(filename string) (Migration, error) {
	prefix, name, ok := strings.Cut(filename, "_")
	if !ok {
		return Migration{}, fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", filename)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return Migration{}, fmt.Errorf("invalid version number in filename %s: %w", filename, err)
	}
	if version < 1 {
		return Migration{}, fmt.Errorf("invalid version number in filename %s: version must be at least 1", filename)
	}
	content, err := fs.ReadFile(r.fs, filename)
	if err != nil {
		return Migration{}, fmt.Errorf("failed to read migration file %s: %w", filename, err)
	}
	return Migration{Version: version, Name: strings.TrimSuffix(name, ".sql"), SQL: string(content)}, nil
}

func (r *Runner) Status() (Status, error) {
	current, err := r.currentVersion()
	if err != nil {
		return Status{}, err
	}
	all, err := r.Migrations()
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current}
	if len(all) > 0 {
		st.Latest = all[len(all)-1].Version
	}
	for _, m := range all {
		if m.Version > current {
			st.Pending = append(st.Pending, m)
		}
	}
	return st, nil
}

// Validate rejects a database written by a newer binary.
func (r *Runner) Validate() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	if st.TooNew() {
		return fmt.Errorf("%w: database is at version %d, this build knows version %d; upgrade habitual", ErrSchemaTooNew, st.Current, st.Latest)
	}
	return nil
}

// Apply runs every pending migration, each in its own transaction, and
// returns how many were applied.
func (r *Runner) Apply() (int, error) {
	st, err := r.Status()
	if err != nil {
		return 0, err
	}
	if st.TooNew() {
		return 0, fmt.Errorf("%w: database is at version %d, this build knows version %d; upgrade habitual", ErrSchemaTooNew, st.Current, st.Latest)
	}
	if len(st.Pending) == 0 {
		logger.Debug("Schema up to date", "dialect", r.dialect, "version", st.Current)
		return 0, nil
	}

	logger.Debug("Applying migrations", "dialect", r.dialect, "from", st.Current, "to", st.Latest, "count", len(st.Pending))
	start := time.Now()
	for i, m := range st.Pending {
		if err := r.apply(m); err != nil {
			return i, err
		}
		logger.Debug("Migration applied", "dialect", r.dialect, "version", m.Version, "name", m.Name)
	}
	logger.Info("Schema migrated", "dialect", r.dialect, "version", st.Latest, "took", time.Since(start))
	return len(st.Pending), nil
}

func (r *Runner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear version in migration %d: %w", m.Version, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES ("+r.dialect.placeholder()+")", m.Version); err != nil {
		return fmt.Errorf("failed to set version in migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// HasTable reports whether name exists, case-insensitively.
func (r *Runner) HasTable(name string) (bool, error) {
	var count int
	if err := r.db.QueryRow(r.dialect.tableExistsQuery(), name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return count > 0, nil
}
