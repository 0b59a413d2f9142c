package system

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/file"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

var fixedNow = time.Date(2026, 5, 20, 8, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.Timezone = "UTC"
	out := &bytes.Buffer{}
	return &cli.Context{
		Store:  store,
		Config: cfg,
		Out:    out,
		In:     strings.NewReader(""),
		Now:    func() time.Time { return fixedNow },
	}, out, store
}

func TestInitCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "habitual.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { store.Close() })
	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Config: config.Default(), Out: out}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database not created: %v", err)
	}
	if !strings.Contains(out.String(), dbPath) {
		t.Errorf("output = %q", out.String())
	}
}

func TestInitForceErasesSQLite(t *testing.T) {
	ctx, _, store := setupTestContext(t)
	if err := store.PutSlot(constants.HabitsSlot, []byte(`[{"id":"x"}]`)); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if _, err := store.GetSlot(constants.HabitsSlot); err == nil {
		t.Error("habits should be erased")
	}
}

func TestInitForceErasesSlots(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "data"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{constants.HabitsSlot, constants.ProfileSlot} {
		if err := store.PutSlot(key, []byte(`{}`)); err != nil {
			t.Fatal(err)
		}
	}
	ctx := &cli.Context{Store: store, Config: config.Default(), Out: &bytes.Buffer{}}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	keys, err := store.ListSlots()
	if err != nil || len(keys) != 0 {
		t.Errorf("slots left = %v, %v", keys, err)
	}
}

func TestDoctorHealthy(t *testing.T) {
	gokeyring.MockInit()
	ctx, out, _ := setupTestContext(t)

	habit := models.NewHabit("Runner", "After coffee", "Put on shoes")
	habit.CompletedDates = []string{"2026-05-19"}
	habit.Streak = 1
	data, _ := json.Marshal([]models.Habit{habit})
	if err := ctx.Store.PutSlot(constants.HabitsSlot, data); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on healthy store: %v\n%s", err, out.String())
	}
	for _, want := range []string{"✓ Storage reachable", "✓ Schema version: OK", "✓ Habits slot: OK", "⚠ Backups present: WARNING", "All diagnostics passed!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorBrokenHabits(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	if err := ctx.Store.PutSlot(constants.HabitsSlot, []byte(`{"not":"a list"}`)); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail")
	}
	if !strings.Contains(out.String(), "❌ Habits slot: FAIL") {
		t.Errorf("output = %s", out.String())
	}
}

func TestDoctorFutureSchema(t *testing.T) {
	ctx, out, store := setupTestContext(t)
	if _, err := store.GetDB().Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail")
	}
	if !strings.Contains(out.String(), "newer than supported") {
		t.Errorf("output = %s", out.String())
	}
}

func TestDoctorUnreachable(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"))
	out := &bytes.Buffer{}
	cfg := config.Default()
	ctx := &cli.Context{Store: store, Config: cfg, Out: out, Now: func() time.Time { return fixedNow }}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail")
	}
	if !strings.Contains(out.String(), "⊘ Habits slot: SKIPPED") {
		t.Errorf("output = %s", out.String())
	}
}

func TestCheckHabitRecords(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty", `[]`, ""},
		{"valid", `[{"id":"a","identityLabel":"R","cue":"c","action":"x","streak":2,"completedDates":["2026-01-01","2026-01-02"]}]`, ""},
		{"not json", `nope`, "not a JSON array"},
		{"negative streak", `[{"id":"a","identityLabel":"R","cue":"c","action":"x","streak":-1,"completedDates":[]}]`, "negative streak"},
		{"duplicate day", `[{"id":"a","identityLabel":"R","cue":"c","action":"x","completedDates":["2026-01-01","2026-01-01"]}]`, "twice"},
		{"bad day", `[{"id":"a","identityLabel":"R","cue":"c","action":"x","completedDates":["2026-13-01"]}]`, "malformed day"},
		{"duplicate id", `[{"id":"a","identityLabel":"R","cue":"c","action":"x"},{"id":"a","identityLabel":"R","cue":"c","action":"y"}]`, "duplicate habit id"},
		{"missing field", `[{"id":"a","identityLabel":"R","action":"x"}]`, "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkHabitRecords([]byte(tt.data))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestKeyringCommands(t *testing.T) {
	gokeyring.MockInit()
	ctx, out, _ := setupTestContext(t)

	if err := (&KeyringSetCmd{Credential: "sk-abcdef7890"}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if strings.Contains(out.String(), "sk-abc") || !strings.Contains(out.String(), "••••••••7890") {
		t.Errorf("set output must be masked: %q", out.String())
	}
	if got, err := keyring.GetAPICredential(); err != nil || got != "sk-abcdef7890" {
		t.Errorf("stored credential = %q, %v", got, err)
	}

	out.Reset()
	if err := (&KeyringStatusCmd{}).Run(ctx); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out.String(), "API credential is stored") {
		t.Errorf("status output = %q", out.String())
	}

	if err := (&KeyringDeleteCmd{}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := (&KeyringDeleteCmd{}).Run(ctx); err == nil {
		t.Error("second delete should report a missing credential")
	}
}

func TestDebugCommands(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	if err := ctx.Profiles().Save(models.UserProfile{DisplayName: "Ada", APICredential: "secret-1234"}); err != nil {
		t.Fatal(err)
	}
	added, err := ctx.Habits().Add(models.NewHabit("Reader", "In bed", "Read a page"))
	if err != nil {
		t.Fatal(err)
	}

	if err := (&DebugSlotsCmd{}).Run(ctx); err != nil {
		t.Fatalf("slots failed: %v", err)
	}
	var keys []string
	if err := json.Unmarshal(out.Bytes(), &keys); err != nil || len(keys) != 2 {
		t.Errorf("slots = %v, %v", keys, err)
	}

	out.Reset()
	if err := (&DebugDumpHabitCmd{ID: added.ID[:6]}).Run(ctx); err != nil {
		t.Fatalf("dump habit failed: %v", err)
	}
	var h models.Habit
	if err := json.Unmarshal(out.Bytes(), &h); err != nil || h.ID != added.ID {
		t.Errorf("dumped habit = %+v, %v", h, err)
	}

	out.Reset()
	if err := (&DebugDumpProfileCmd{}).Run(ctx); err != nil {
		t.Fatalf("dump profile failed: %v", err)
	}
	if strings.Contains(out.String(), "secret") {
		t.Errorf("profile dump leaked the credential: %s", out.String())
	}
}
