// Package suggest produces candidate (action, cue) pairs for an identity.
// Providers never fail: any problem yields an empty list.
package suggest

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

type Provider interface {
	Name() string
	Suggest(ctx context.Context, identity, personalContext string) []models.Suggestion
}

// New returns the live provider when a credential is present and the mock
// provider otherwise.
func New(credential string, cfg config.Suggest) Provider {
	if strings.TrimSpace(credential) == "" {
		logger.Debug("No API credential, using mock suggestions")
		return &Mock{Delay: cfg.MockDelay}
	}
	return NewGemini(credential, cfg)
}

// ResolveCredential picks the credential from the profile, then the OS
// keyring, then the environment.
func ResolveCredential(profile models.UserProfile) string {
	if c := strings.TrimSpace(profile.APICredential); c != "" {
		return c
	}
	c, err := keyring.GetAPICredential()
	if err == nil && strings.TrimSpace(c) != "" {
		return strings.TrimSpace(c)
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("Keyring lookup failed", "error", err)
	}
	return strings.TrimSpace(os.Getenv(constants.APIKeyEnvVar))
}

// Filter drops suggestions whose action is already tracked for identity,
// comparing case-insensitively.
func Filter(suggestions []models.Suggestion, existing []models.Habit, identity string) []models.Suggestion {
	taken := make(map[string]bool)
	for _, h := range existing {
		if strings.EqualFold(h.IdentityLabel, identity) {
			taken[strings.ToLower(h.Action)] = true
		}
	}
	out := make([]models.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if !taken[strings.ToLower(s.Action)] {
			out = append(out, s)
		}
	}
	return out
}
