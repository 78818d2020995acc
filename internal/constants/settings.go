package constants

const (
	SettingTimezone      = "timezone"
	SettingCascadeDelete = "cascade_delete"

	// Default Settings Values
	DefaultTimezone      = "Local" // Use system local timezone by default
	DefaultCascadeDelete = true
)
