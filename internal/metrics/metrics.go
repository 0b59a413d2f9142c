// Package metrics derives the dashboard figures from the habit collection.
// All functions are pure and never mutate their input.
package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// Trend compares completions in the last seven days with the seven before.
type Trend struct {
	Current   int
	Previous  int
	Value     string
	Direction Direction
}

type IdentityCount struct {
	Identity string
	Count    int
}

// Summary is the full dashboard snapshot.
type Summary struct {
	TotalCompletions   int
	ActiveIdentities   int
	TopStreak          int
	Level              int
	Trend              Trend
	Identities         []IdentityCount
	ConsecutiveStreaks map[string]int
}

func TotalCompletions(habits []models.Habit) int {
	total := 0
	for _, h := range habits {
		total += h.CompletionCount()
	}
	return total
}

// ActiveIdentityCount counts distinct identity labels (exact match).
func ActiveIdentityCount(habits []models.Habit) int {
	seen := make(map[string]struct{}, len(habits))
	for _, h := range habits {
		seen[h.IdentityLabel] = struct{}{}
	}
	return len(seen)
}

func TopStreak(habits []models.Habit) int {
	top := 0
	for _, h := range habits {
		top = max(top, h.Streak)
	}
	return top
}

// LevelFromTotal is floor(total/10)+1.
func LevelFromTotal(total int) int {
	if total < 0 {
		total = 0
	}
	return total/constants.CompletionsPerLevel + 1
}

// SevenDayTrend buckets every completion into the current window
// (on or after today-7) or the previous one [today-14, today-7), with days
// taken in now's location. Keys that do not parse are skipped.
func SevenDayTrend(habits []models.Habit, now time.Time) Trend {
	loc := now.Location()
	today := utils.StartOfDay(now)
	sevenDaysAgo := today.AddDate(0, 0, -constants.TrendWindowDays)
	fourteenDaysAgo := today.AddDate(0, 0, -2*constants.TrendWindowDays)

	var t Trend
	for _, h := range habits {
		for _, day := range h.CompletedDates {
			d, err := utils.ParseDayInLocation(day, loc)
			if err != nil {
				continue
			}
			switch {
			case !d.Before(sevenDaysAgo):
				t.Current++
			case !d.Before(fourteenDaysAgo):
				t.Previous++
			}
		}
	}

	if t.Previous == 0 {
		if t.Current > 0 {
			t.Value, t.Direction = "+100%", DirectionUp
		} else {
			t.Value, t.Direction = "0%", DirectionNeutral
		}
		return t
	}

	diff := float64(t.Current - t.Previous)
	pct := int(math.Floor(diff/float64(t.Previous)*100 + 0.5))
	switch {
	case pct > 0:
		t.Value, t.Direction = fmt.Sprintf("+%d%%", pct), DirectionUp
	case pct < 0:
		t.Value, t.Direction = fmt.Sprintf("%d%%", pct), DirectionDown
	default:
		t.Value, t.Direction = "0%", DirectionNeutral
	}
	return t
}

// PerIdentityCompletionCounts sums completions per identity label in
// first-seen order.
func PerIdentityCompletionCounts(habits []models.Habit) []IdentityCount {
	counts := []IdentityCount{}
	index := make(map[string]int)
	for _, h := range habits {
		i, ok := index[h.IdentityLabel]
		if !ok {
			i = len(counts)
			index[h.IdentityLabel] = i
			counts = append(counts, IdentityCount{Identity: h.IdentityLabel})
		}
		counts[i].Count += h.CompletionCount()
	}
	return counts
}

// ConsecutiveStreak counts consecutive calendar days present in the
// completion set, ending today, or yesterday when today is not done yet.
// It is reported next to the stored streak and never replaces it.
func ConsecutiveStreak(h models.Habit, now time.Time) int {
	loc := now.Location()
	day := utils.StartOfDay(now)
	if !h.HasDay(utils.DayKey(day, loc)) {
		day = day.AddDate(0, 0, -1)
	}

	days := make(map[string]bool, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		days[d] = true
	}

	n := 0
	for days[utils.DayKey(day, loc)] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func Summarize(habits []models.Habit, now time.Time) Summary {
	total := TotalCompletions(habits)
	consecutive := make(map[string]int, len(habits))
	for _, h := range habits {
		consecutive[h.ID] = ConsecutiveStreak(h, now)
	}
	return Summary{
		TotalCompletions:   total,
		ActiveIdentities:   ActiveIdentityCount(habits),
		TopStreak:          TopStreak(habits),
		Level:              LevelFromTotal(total),
		Trend:              SevenDayTrend(habits, now),
		Identities:         PerIdentityCompletionCounts(habits),
		ConsecutiveStreaks: consecutive,
	}
}
