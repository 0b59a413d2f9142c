package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

type DoctorCmd struct{}

// versioned is implemented by the SQL backends.
type versioned interface {
	SchemaVersion() (current, latest int, err error)
}

type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Habits slot", needsDB: true, run: checkHabitsSlot},
	{name: "Profile slot", needsDB: true, run: checkProfileSlot},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		ctx.Printf("❌ Storage reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Storage reachable: OK (%s)\n", ctx.Store.GetConfigPath())
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	v, ok := ctx.Store.(versioned)
	if !ok {
		return nil
	}
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("%w: version %d, this build knows %d", migration.ErrSchemaTooNew, current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkHabitsSlot(ctx *cli.Context) error {
	data, err := ctx.Store.GetSlot(constants.HabitsSlot)
	if errors.Is(err, storage.ErrSlotNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return checkHabitRecords(data)
}

// checkHabitRecords validates the raw habits document. The habit store
// repairs some of these on load; doctor reports them as stored.
func checkHabitRecords(data []byte) error {
	var list []models.Habit
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("habits slot is not a JSON array of habits: %w", err)
	}

	var problems []error
	ids := make(map[string]bool, len(list))
	for i, h := range list {
		label := h.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if missing := h.MissingFields(); len(missing) > 0 {
			problems = append(problems, fmt.Errorf("habit %s is missing %v", label, missing))
		}
		if h.ID != "" && ids[h.ID] {
			problems = append(problems, fmt.Errorf("duplicate habit id %s", h.ID))
		}
		ids[h.ID] = true
		if h.Streak < 0 {
			problems = append(problems, fmt.Errorf("habit %s has negative streak %d", label, h.Streak))
		}
		days := make(map[string]bool, len(h.CompletedDates))
		for _, d := range h.CompletedDates {
			if !utils.ValidateDayKey(d) {
				problems = append(problems, fmt.Errorf("habit %s has malformed day %q", label, d))
			}
			if days[d] {
				problems = append(problems, fmt.Errorf("habit %s lists %s twice", label, d))
			}
			days[d] = true
		}
	}
	return errors.Join(problems...)
}

func checkProfileSlot(ctx *cli.Context) error {
	data, err := ctx.Store.GetSlot(constants.ProfileSlot)
	if errors.Is(err, storage.ErrSlotNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var p models.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("profile slot is not valid JSON: %w", err)
	}
	if p.DisplayName == "" {
		return fmt.Errorf("profile has no display name")
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path, ok := ctx.SQLitePath()
	if !ok {
		return nil
	}
	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q", ctx.Config.Timezone)
	}
	now := ctx.Clock()()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; use the profile or %s for the API credential", constants.APIKeyEnvVar)
	}
	return nil
}
