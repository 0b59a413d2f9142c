package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

// isolate points HOME and the config file at a temp dir and returns a
// store path inside it.
func isolate(t *testing.T) (store, configFile string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"HABITUAL_STORAGE", "HABITUAL_TIMEZONE", "HABITUAL_DEBUG", "HABITUAL_SUGGEST_MODEL", "HABITUAL_API_KEY"} {
		t.Setenv(key, "")
	}
	gokeyring.MockInit()
	return filepath.Join(home, "habitual.db"), filepath.Join(home, "config.yaml")
}

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out, strings.NewReader(""))
	return out.String(), err
}

func TestWorkflow(t *testing.T) {
	db, cfg := isolate(t)
	base := []string{"--config", cfg, "--store", db}

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"init"}, "Initialized habitual storage"},
		{[]string{"profile", "set", "--name", "Ada Lovelace"}, "Profile saved for Ada Lovelace"},
		{[]string{"habit", "add", "--identity", "Runner", "--cue", "After coffee", "--action", "Put on shoes"}, "I am a Runner"},
		{[]string{"habit", "list"}, "Put on shoes"},
		{[]string{"dashboard"}, "Welcome back, Ada"},
		{[]string{"backup", "create"}, "Backup created"},
		{[]string{"doctor"}, "All diagnostics passed!"},
	}
	for _, step := range steps {
		out, err := runArgs(t, append(base, step.args...)...)
		if err != nil {
			t.Fatalf("%v failed: %v\n%s", step.args, err, out)
		}
		if !strings.Contains(out, step.want) {
			t.Errorf("%v output missing %q:\n%s", step.args, step.want, out)
		}
	}
}

func TestCommandsNeedInit(t *testing.T) {
	db, cfg := isolate(t)

	_, err := runArgs(t, "--config", cfg, "--store", db, "habit", "list")
	if !errors.Is(err, storage.ErrNotInitialized) {
		t.Fatalf("err = %v, want ErrNotInitialized", err)
	}
	if apperrors.Hint(err) == "" {
		t.Error("expected a remediation hint")
	}
}

func TestPrepareStore(t *testing.T) {
	tests := []struct {
		command    string
		wantErr    bool
		wantExists bool
	}{
		{"tui", false, true},
		{"list", true, false},
		{"doctor", true, false},
		{"init", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "nested", "habitual.db")
			store := sqlite.NewStore(path)
			t.Cleanup(func() { store.Close() })

			err := prepareStore(store, tt.command)
			if tt.wantErr {
				if !errors.Is(err, storage.ErrNotInitialized) || apperrors.Hint(err) == "" {
					t.Errorf("err = %v, want ErrNotInitialized with a hint", err)
				}
			} else if err != nil {
				t.Fatalf("prepareStore failed: %v", err)
			}

			_, statErr := os.Stat(path)
			if exists := statErr == nil; exists != tt.wantExists {
				t.Errorf("database exists = %v, want %v", exists, tt.wantExists)
			}
		})
	}
}

func TestFirstLaunchStoreIsEmpty(t *testing.T) {
	db, cfg := isolate(t)
	store := sqlite.NewStore(db)
	if err := prepareStore(store, "tui"); err != nil {
		t.Fatalf("prepareStore failed: %v", err)
	}
	store.Close()

	// Later commands find the store the TUI created
	out, err := runArgs(t, "--config", cfg, "--store", db, "habit", "list")
	if err != nil {
		t.Fatalf("habit list failed: %v", err)
	}
	if !strings.Contains(out, "No habits yet") {
		t.Errorf("list = %q", out)
	}
}

func TestFileBackendWorkflow(t *testing.T) {
	_, cfg := isolate(t)
	store := "file://" + filepath.Join(t.TempDir(), "slots")

	for _, args := range [][]string{
		{"init"},
		{"habit", "add", "--identity", "Reader", "--cue", "In bed", "--action", "Read a page"},
	} {
		if out, err := runArgs(t, append([]string{"--config", cfg, "--store", store}, args...)...); err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, out)
		}
	}

	out, err := runArgs(t, "--config", cfg, "--store", store, "habit", "list")
	if err != nil || !strings.Contains(out, "Read a page") {
		t.Errorf("list = %q, %v", out, err)
	}

	if _, err := runArgs(t, "--config", cfg, "--store", store, "backup", "create"); err == nil {
		t.Error("backups should be refused for the file backend")
	}
}

func TestParseErrors(t *testing.T) {
	_, cfg := isolate(t)
	if _, err := runArgs(t, "--config", cfg, "habit", "add", "--identity", "Runner"); err == nil {
		t.Error("expected missing required flags to fail")
	}
}
