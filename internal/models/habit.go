package models

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Habit is an identity -> cue -> action triple with its completion history.
// Streak is a toggle-coupled counter, not derived from CompletedDates.
type Habit struct {
	ID             string   `json:"id"`
	IdentityLabel  string   `json:"identityLabel"`
	Cue            string   `json:"cue"`
	Action         string   `json:"action"`
	Streak         int      `json:"streak"`
	CompletedDates []string `json:"completedDates"` // YYYY-MM-DD day-keys
	Color          string   `json:"color"`
}

// NewHabit builds a fully formed habit with a fresh id and a random color.
func NewHabit(identity, cue, action string) Habit {
	return Habit{
		ID:             uuid.New().String(),
		IdentityLabel:  strings.TrimSpace(identity),
		Cue:            strings.TrimSpace(cue),
		Action:         strings.TrimSpace(action),
		Streak:         0,
		CompletedDates: []string{},
		Color:          RandomColor(),
	}
}

// RandomColor returns a random #rrggbb color tag.
func RandomColor() string {
	return fmt.Sprintf("#%06x", rand.IntN(0xffffff+1))
}

// HasDay reports whether day is in the completion set.
func (h Habit) HasDay(day string) bool {
	return slices.Contains(h.CompletedDates, day)
}

// CompletionCount is the size of the completion set.
func (h Habit) CompletionCount() int {
	return len(h.CompletedDates)
}

// Clone returns a copy that does not share the CompletedDates backing array.
func (h Habit) Clone() Habit {
	c := h
	c.CompletedDates = slices.Clone(h.CompletedDates)
	if c.CompletedDates == nil {
		c.CompletedDates = []string{}
	}
	return c
}

// MissingFields lists required fields that are blank.
func (h Habit) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(h.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(h.IdentityLabel) == "" {
		missing = append(missing, "identityLabel")
	}
	if strings.TrimSpace(h.Cue) == "" {
		missing = append(missing, "cue")
	}
	if strings.TrimSpace(h.Action) == "" {
		missing = append(missing, "action")
	}
	return missing
}
