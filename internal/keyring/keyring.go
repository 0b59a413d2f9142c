package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/constants"
)

var (
	// ErrNotFound is returned when no credential is stored in the keyring
	ErrNotFound = errors.New("API credential not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetAPICredential retrieves the suggestion provider credential from the OS keyring.
// Returns ErrNotFound if nothing is stored.
func GetAPICredential() (string, error) {
	credential, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return credential, nil
}

// SetAPICredential stores the suggestion provider credential in the OS keyring.
func SetAPICredential(credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return errors.New("API credential cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, credential); err != nil {
		return fmt.Errorf("failed to store credential in keyring: %w", err)
	}
	return nil
}

// DeleteAPICredential removes the credential from the OS keyring.
func DeleteAPICredential() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credential from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
