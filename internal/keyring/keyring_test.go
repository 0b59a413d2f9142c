package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetAPICredential(t *testing.T) {
	gokeyring.MockInit()

	if err := SetAPICredential("  AIzaTestKey1234  "); err != nil {
		t.Fatalf("SetAPICredential() failed: %v", err)
	}

	got, err := GetAPICredential()
	if err != nil {
		t.Fatalf("GetAPICredential() failed: %v", err)
	}
	if got != "AIzaTestKey1234" {
		t.Errorf("GetAPICredential() = %q, want trimmed credential", got)
	}
}

func TestSetAPICredentialEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetAPICredential("   "); err == nil {
		t.Error("SetAPICredential(blank) should return an error")
	}
}

func TestGetAPICredentialNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteAPICredential()

	_, err := GetAPICredential()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAPICredential() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteAPICredential(t *testing.T) {
	gokeyring.MockInit()

	if err := SetAPICredential("secret"); err != nil {
		t.Fatalf("SetAPICredential() failed: %v", err)
	}
	if err := DeleteAPICredential(); err != nil {
		t.Fatalf("DeleteAPICredential() failed: %v", err)
	}
	if err := DeleteAPICredential(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteAPICredential() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false with the mock keyring")
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus: no session bus"))
	defer gokeyring.MockInit()

	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
	if _, err := GetAPICredential(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetAPICredential() error = %v, want %v", err, ErrKeyringUnavailable)
	}
}
