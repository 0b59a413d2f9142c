package tracking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/calendar"
	"github.com/julianstephens/habitual/internal/utils"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a habit for an identity."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Toggle  HabitToggleCmd  `cmd:"" help:"Toggle today's completion for a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and its history."`
	History HabitHistoryCmd `cmd:"" help:"Show a month calendar for a habit."`
}

type HabitAddCmd struct {
	Identity string `help:"Identity this habit reinforces (e.g. \"Reader\")." required:""`
	Cue      string `help:"When the habit happens (e.g. \"After I pour my coffee\")." required:""`
	Action   string `help:"The small action (e.g. \"Read 1 page\")." required:""`
	Color    string `help:"Color tag as #rrggbb (random when omitted)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	h := models.NewHabit(c.Identity, c.Cue, c.Action)
	if c.Color != "" {
		if !colorPattern.MatchString(c.Color) {
			return fmt.Errorf("invalid color %q (expected #rrggbb)", c.Color)
		}
		h.Color = strings.ToLower(c.Color)
	}

	added, err := ctx.Habits().Add(h)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added habit %s: I am a %s. %s, I will %s.\n", shortID(added.ID), added.IdentityLabel, added.Cue, added.Action)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	store := ctx.Habits()
	list := store.List()
	if len(list) == 0 {
		ctx.Println("No habits yet. Add one with 'habitual habit add' or 'habitual suggest'.")
		return nil
	}

	today := store.Today()
	now := ctx.Clock()().In(store.Location())
	for _, h := range list {
		mark := " "
		if h.HasDay(today) {
			mark = "✓"
		}
		ctx.Printf("[%s] %s  %-16s %s → %s  (streak %d, %d in a row)\n",
			mark, shortID(h.ID), h.IdentityLabel, h.Cue, h.Action, h.Streak, metrics.ConsecutiveStreak(h, now))
	}
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit id or unique id prefix."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	store := ctx.Habits()
	h, err := store.Resolve(c.Habit)
	if err != nil {
		return err
	}

	updated, result, err := store.ToggleToday(h.ID)
	if err != nil {
		return err
	}
	switch result {
	case habits.ToggleCompleted:
		ctx.Printf("✓ %s done for %s (streak %d)\n", updated.Action, store.Today(), updated.Streak)
	case habits.ToggleUndone:
		ctx.Printf("↺ %s undone for %s (streak %d)\n", updated.Action, store.Today(), updated.Streak)
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or unique id prefix."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	store := ctx.Habits()
	h, err := store.Resolve(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		question := fmt.Sprintf("Delete %q (%s)?", h.Action, h.IdentityLabel)
		if !ctx.Confirm(question, constants.DeleteWarning) {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if err := store.Remove(h.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted habit %s\n", shortID(h.ID))
	return nil
}

type HabitHistoryCmd struct {
	Habit string `arg:"" help:"Habit id or unique id prefix."`
	Month string `help:"Month to show as YYYY-MM (default: current month)."`
}

func (c *HabitHistoryCmd) Run(ctx *cli.Context) error {
	store := ctx.Habits()
	h, err := store.Resolve(c.Habit)
	if err != nil {
		return err
	}

	loc := store.Location()
	now := ctx.Clock()().In(loc)
	month := utils.StartOfDay(now).AddDate(0, 0, 1-now.Day())
	if c.Month != "" {
		if month, err = utils.ParseMonth(c.Month, loc); err != nil {
			return err
		}
	}

	ctx.Printf("%s · %s → %s\n\n", h.IdentityLabel, h.Cue, h.Action)
	ctx.Println(calendar.Render(h, month, store.Today()))
	ctx.Printf("\nStreak %d · %d in a row · %d completions total\n", h.Streak, metrics.ConsecutiveStreak(h, now), h.CompletionCount())
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
