package models

import "strings"

// UserProfile is the single local user. A present APICredential switches the
// suggestion provider from mock to live.
type UserProfile struct {
	DisplayName   string `json:"displayName"`
	APICredential string `json:"apiCredential,omitempty"`
}

// FirstName returns the first word of the display name, or "User".
func (p UserProfile) FirstName() string {
	fields := strings.Fields(p.DisplayName)
	if len(fields) == 0 {
		return "User"
	}
	return fields[0]
}

// MaskedCredential hides all but the last four characters of the credential.
func (p UserProfile) MaskedCredential() string {
	if p.APICredential == "" {
		return "Not set"
	}
	tail := p.APICredential
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return "••••••••" + tail
}
