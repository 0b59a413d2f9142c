package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitual"
	DefaultKeyringUser = "api-credential"
	DefaultConfigDir   = "~/.config/habitual"
	DefaultConfigFile  = "~/.config/habitual/config.yaml"
	DefaultStorePath   = "~/.config/habitual/habitual.db"
	Version            = "v0.3.0"

	// DateFormat is the canonical day-key format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used by the history view and `habit history --month`
	MonthFormat = "2006-01"

	// Slot keys
	HabitsSlot  = "habits"
	ProfileSlot = "profile"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"

	// Level math
	CompletionsPerLevel = 10

	// Trend windows
	TrendWindowDays = 7

	// Suggestion defaults
	DefaultSuggestModel       = "gemini-3-flash-preview"
	DefaultSuggestEndpoint    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultSuggestTimeout     = 30 * time.Second
	DefaultSuggestMinInterval = 2 * time.Second
	DefaultMockDelay          = 800 * time.Millisecond
	APIKeyEnvVar              = "HABITUAL_API_KEY"

	// Confirmation copy
	DeleteWarning = "This action cannot be undone. All streak history for this habit will be lost forever."
	ResetWarning  = "This removes your profile and API credential. Your habits are kept."
)

// Session States
const (
	StateDashboard SessionState = iota
	StateHabits
	StateSettings
	StateOnboarding
	StateHistory
	StateNewIdentity
	StateSuggestions
	StateConfirmDelete
	StateConfirmReset
)
