package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName           = "levelup"
	DefaultConfigPath = "~/.config/levelup/levelup.db"
	Version           = "v0.1.0"

	// GateKeyringUser is the keyring slot holding the lock screen password
	GateKeyringUser = "habit_tracker_password"

	// WindowDays is the length of the rolling grid and analytics window
	WindowDays = 40
	// RetentionDays is how far back a log may be dated before it is pruned
	RetentionDays = 40

	// LogIDSeparator joins a habit id and a date key into a log id
	LogIDSeparator = "_"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "levelup-"
	BackupFileSuffix = ".db"

	// BusyTimeout is how long sqlite waits on a locked database before failing
	BusyTimeout = 5 * time.Second
)

// Session States
const (
	StateLocked SessionState = iota
	StateGrid
	StateStats
	StateAddHabit
	StateConfirmDelete
)
