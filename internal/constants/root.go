package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "questlog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/questlog/questlog.db"
	Version            = "v0.3.0"

	// KeyringConfigValue selects the connection string stored in the OS keyring
	KeyringConfigValue = "keyring"

	// AggregateKey is the slot key holding the serialized aggregate
	AggregateKey = "questlog_aggregate"

	// ExportFileName is the fixed name of every exported snapshot
	ExportFileName = "campaigns.json"

	// DateFormat is the session date format accepted on input (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is the ISO-8601 layout used for every persisted timestamp
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// DisplayDateFormat is how session dates are rendered
	DisplayDateFormat = "Monday, 2 January 2006"

	// ID prefixes
	CampaignIDPrefix   = "campaign-"
	CharacterIDPrefix  = "character-"
	DiaryEntryIDPrefix = "diary-"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "questlog-"
	BackupFileSuffix = ".json"
	StaleBackupAge   = 7 * 24 * time.Hour

	// Lock constants
	LockFileName       = "questlog.lock"
	DefaultLockTimeout = 5 * time.Second
	LockRetryDelay     = 50 * time.Millisecond

	// Logging
	LogDirName  = "logs"
	LogFileName = "questlog.log"

	// UnknownCampaignName is shown for campaign ids that no longer resolve
	UnknownCampaignName = "Unknown campaign"
)

// Session States
const (
	StateHome SessionState = iota
	StateCampaigns
	StateCharacters
	StateDiary
	StateDetail
	StateEditing
	StateConfirmDelete
)

// Tabs lists the top-level TUI tabs in display order
var Tabs = []SessionState{StateHome, StateCampaigns, StateCharacters, StateDiary}
