// Package habits owns the habit collection: add, remove, list, and the
// toggle-coupled streak counter. Every mutation rewrites the whole
// collection into the habits slot.
package habits

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	ErrMissingField = errors.New("habit is missing required fields")
	ErrDuplicateID  = errors.New("habit id already exists")
)

// Toggle describes what ToggleToday did.
type Toggle int

const (
	ToggleNone Toggle = iota
	ToggleCompleted
	ToggleUndone
)

func (t Toggle) String() string {
	switch t {
	case ToggleCompleted:
		return "completed"
	case ToggleUndone:
		return "undone"
	default:
		return "none"
	}
}

type Store struct {
	slots  storage.Provider
	now    func() time.Time
	loc    *time.Location
	habits []models.Habit
}

type Option func(*Store)

// WithClock overrides the time source used to compute today's day-key.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the timezone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewStore(slots storage.Provider, opts ...Option) *Store {
	s := &Store{
		slots:  slots,
		now:    time.Now,
		loc:    time.Local,
		habits: []models.Habit{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A missing,
// unreadable or malformed slot yields an empty collection.
func (s *Store) Load() {
	s.habits = []models.Habit{}

	data, err := s.slots.GetSlot(constants.HabitsSlot)
	if err != nil {
		if !errors.Is(err, storage.ErrSlotNotFound) {
			apperrors.Degrade("habits", err, "slot", constants.HabitsSlot)
		}
		return
	}

	var loaded []models.Habit
	if err := json.Unmarshal(data, &loaded); err != nil {
		apperrors.Degrade("habits", fmt.Errorf("failed to parse habits: %w", err), "slot", constants.HabitsSlot)
		return
	}

	for _, h := range loaded {
		s.habits = append(s.habits, normalize(h))
	}
	logger.Debug("Loaded habits", "count", len(s.habits))
}

// normalize repairs the invariants a hand-edited or older slot may violate.
func normalize(h models.Habit) models.Habit {
	if h.Streak < 0 {
		logger.Debug("Clamped negative streak", "id", h.ID, "streak", h.Streak)
		h.Streak = 0
	}
	seen := make(map[string]bool, len(h.CompletedDates))
	dates := make([]string, 0, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		if seen[d] {
			logger.Debug("Dropped duplicate completion", "id", h.ID, "day", d)
			continue
		}
		seen[d] = true
		dates = append(dates, d)
	}
	h.CompletedDates = dates
	return h
}

// Today is the current day-key in the store's location.
func (s *Store) Today() string {
	return utils.DayKey(s.now(), s.loc)
}

// Location is the timezone defining calendar days.
func (s *Store) Location() *time.Location {
	return s.loc
}

// List returns the habits in insertion order. The result is a copy.
func (s *Store) List() []models.Habit {
	out := make([]models.Habit, len(s.habits))
	for i, h := range s.habits {
		out[i] = h.Clone()
	}
	return out
}

func (s *Store) Get(id string) (models.Habit, bool) {
	if i := s.index(id); i >= 0 {
		return s.habits[i].Clone(), true
	}
	return models.Habit{}, false
}

// Add appends a new habit with a zero streak and no completions.
func (s *Store) Add(h models.Habit) (models.Habit, error) {
	if missing := h.MissingFields(); len(missing) > 0 {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	if s.index(h.ID) >= 0 {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrDuplicateID, h.ID)
	}

	h.IdentityLabel = strings.TrimSpace(h.IdentityLabel)
	h.Cue = strings.TrimSpace(h.Cue)
	h.Action = strings.TrimSpace(h.Action)
	h.Streak = 0
	h.CompletedDates = []string{}
	if h.Color == "" {
		h.Color = models.RandomColor()
	}

	s.habits = append(s.habits, h)
	logger.Info("Added habit", "id", h.ID, "identity", h.IdentityLabel)
	return h.Clone(), s.persist()
}

// Remove deletes the habit with id. An unknown id is a no-op.
func (s *Store) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.habits = slices.Delete(s.habits, i, i+1)
	logger.Info("Removed habit", "id", id)
	return s.persist()
}

// ToggleToday flips today's completion for id. Completing increments the
// streak; undoing removes today's key and decrements the streak, never
// below zero. An unknown id is a no-op.
func (s *Store) ToggleToday(id string) (models.Habit, Toggle, error) {
	i := s.index(id)
	if i < 0 {
		return models.Habit{}, ToggleNone, nil
	}

	today := s.Today()
	h := &s.habits[i]

	var result Toggle
	if j := slices.Index(h.CompletedDates, today); j >= 0 {
		h.CompletedDates = slices.Delete(h.CompletedDates, j, j+1)
		h.Streak = max(0, h.Streak-1)
		result = ToggleUndone
	} else {
		h.CompletedDates = append(h.CompletedDates, today)
		h.Streak++
		result = ToggleCompleted
	}

	logger.Debug("Toggled habit", "id", id, "day", today, "result", result, "streak", h.Streak)
	return h.Clone(), result, s.persist()
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.habits, func(h models.Habit) bool { return h.ID == id })
}

// persist writes the full collection. On failure the in-memory state keeps
// the mutation and the error is returned.
func (s *Store) persist() error {
	habits := s.habits
	if habits == nil {
		habits = []models.Habit{}
	}
	data, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to serialize habits: %w", err)
	}
	if err := s.slots.PutSlot(constants.HabitsSlot, data); err != nil {
		logger.Error("Failed to persist habits", "error", err)
		return fmt.Errorf("failed to persist habits: %w", err)
	}
	return nil
}
