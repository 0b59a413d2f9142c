package models

// Suggestion is a candidate habit produced by a suggestion provider.
type Suggestion struct {
	Action string `json:"action"`
	Cue    string `json:"cue"`
}
