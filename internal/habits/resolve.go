package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
)

var (
	ErrNotFound  = errors.New("habit not found")
	ErrAmbiguous = errors.New("habit reference is ambiguous")
)

// Resolve finds a habit by full id or unique id prefix.
func (s *Store) Resolve(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Habit{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	if h, ok := s.Get(ref); ok {
		return h, nil
	}

	var matches []models.Habit
	for _, h := range s.habits {
		if strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0].Clone(), nil
	default:
		return models.Habit{}, fmt.Errorf("%w: %q matches %d habits", ErrAmbiguous, ref, len(matches))
	}
}
