// Package profile persists the single local user profile.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

var ErrDisplayNameRequired = errors.New("display name is required")

type Store struct {
	slots storage.Provider
}

func NewStore(slots storage.Provider) *Store {
	return &Store{slots: slots}
}

// Load returns the stored profile. ok is false when none exists or the slot
// cannot be read or parsed.
func (s *Store) Load() (p models.UserProfile, ok bool) {
	data, err := s.slots.GetSlot(constants.ProfileSlot)
	if err != nil {
		if !errors.Is(err, storage.ErrSlotNotFound) {
			apperrors.Degrade("profile", err)
		}
		return models.UserProfile{}, false
	}
	if err := json.Unmarshal(data, &p); err != nil {
		apperrors.Degrade("profile", fmt.Errorf("failed to parse profile: %w", err))
		return models.UserProfile{}, false
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return models.UserProfile{}, false
	}
	return p, true
}

// Save overwrites the stored profile.
func (s *Store) Save(p models.UserProfile) error {
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	p.APICredential = strings.TrimSpace(p.APICredential)
	if p.DisplayName == "" {
		return ErrDisplayNameRequired
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}
	if err := s.slots.PutSlot(constants.ProfileSlot, data); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	logger.Info("Saved profile", "credential", p.APICredential != "")
	return nil
}

// Clear removes the stored profile. Clearing twice is fine.
func (s *Store) Clear() error {
	if err := s.slots.DeleteSlot(constants.ProfileSlot); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	logger.Info("Cleared profile")
	return nil
}
