package constants

const (
	// Config keys, also used for environment overrides (HABITUAL_<KEY>)
	SettingStorage      = "storage"
	SettingTimezone     = "timezone"
	SettingDebug        = "debug"
	SettingSuggestModel = "suggest_model"

	DefaultTimezone = "Local" // Use system local timezone by default
)
