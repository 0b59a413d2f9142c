package migration

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/migrations"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyFreshDatabase(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_slots.sql": {Data: []byte("CREATE TABLE slots (key TEXT PRIMARY KEY, value TEXT);")},
		"002_index.sql": {Data: []byte("CREATE INDEX idx_slots_value ON slots(value);")},
		"README.md":     {Data: []byte("ignored")},
	}
	runner := NewRunner(db, fsys, DialectSQLite)

	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Initialized() || st.Latest != 2 || len(st.Pending) != 2 {
		t.Fatalf("fresh status = %+v", st)
	}

	applied, err := runner.Apply()
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	st, err = runner.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Current != 2 || len(st.Pending) != 0 {
		t.Errorf("status after apply = %+v", st)
	}

	// Second run is a no-op
	applied, err = runner.Apply()
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second run applied = %d, want 0", applied)
	}
}

func TestApplyRollsBackFailure(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE b (id INTEGER")},
	}
	runner := NewRunner(db, fsys, DialectSQLite)

	applied, err := runner.Apply()
	if err == nil {
		t.Fatal("expected broken migration to fail")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if !strings.Contains(err.Error(), "002") {
		t.Errorf("error should name the failing migration, got %v", err)
	}

	st, _ := runner.Status()
	if st.Current != 1 || len(st.Pending) != 1 || st.Pending[0].Name != "broken" {
		t.Errorf("status = %+v, want version 1 with 002 pending", st)
	}
	if ok, _ := runner.HasTable("b"); ok {
		t.Error("failed migration left table b behind")
	}
}

func TestMigrationsValidation(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"bad filename", fstest.MapFS{"init.sql": {Data: []byte("")}}},
		{"non-numeric version", fstest.MapFS{"abc_init.sql": {Data: []byte("")}}},
		{"zero version", fstest.MapFS{"000_init.sql": {Data: []byte("")}}},
		{"duplicate version", fstest.MapFS{
			"001_a.sql": {Data: []byte("")},
			"01_b.sql":  {Data: []byte("")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(openTestDB(t), tt.fsys, DialectSQLite)
			if _, err := runner.Migrations(); err == nil {
				t.Error("Migrations should fail")
			}
		})
	}
}

func TestValidateRejectsNewerDatabase(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
	}, DialectSQLite)

	if _, err := runner.Apply(); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := runner.Validate(); err != nil {
		t.Fatalf("Validate on current schema: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 5"); err != nil {
		t.Fatal(err)
	}

	if err := runner.Validate(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Validate = %v, want ErrSchemaTooNew", err)
	}
	if _, err := runner.Apply(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Apply = %v, want ErrSchemaTooNew", err)
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, mustSub(t, "sqlite"), DialectSQLite)

	if _, err := runner.Apply(); err != nil {
		t.Fatalf("embedded sqlite migrations failed: %v", err)
	}
	for _, table := range []string{"slots", "SLOTS", "schema_version"} {
		if ok, err := runner.HasTable(table); err != nil || !ok {
			t.Errorf("HasTable(%q) = %v, %v", table, ok, err)
		}
	}
	if _, err := db.Exec("INSERT INTO slots (key, value, updated_at) VALUES ('habits', '[]', 'now')"); err != nil {
		t.Errorf("slots table not usable: %v", err)
	}
}

func TestPlaceholder(t *testing.T) {
	if DialectSQLite.placeholder() != "?" || DialectPostgres.placeholder() != "$1" {
		t.Error("unexpected placeholder for dialect")
	}
}

func mustSub(t *testing.T, dir string) fstest.MapFS {
	t.Helper()
	entries, err := migrations.FS.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read embedded %s migrations: %v", dir, err)
	}
	out := fstest.MapFS{}
	for _, e := range entries {
		data, err := migrations.FS.ReadFile(dir + "/" + e.Name())
		if err != nil {
			t.Fatalf("failed to read %s: %v", e.Name(), err)
		}
		out[e.Name()] = &fstest.MapFile{Data: data}
	}
	return out
}
