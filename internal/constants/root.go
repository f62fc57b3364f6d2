package constants

import "time"

const (
	AppName            = "timewise"
	DefaultKeyringUser = "gemini-api-key"
	DefaultConfigPath  = "~/.config/timewise/timewise.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DayLabelFormat is the short label used for a calendar day (e.g. "Mar 4")
	DayLabelFormat = "Jan 2"

	// WeekdayLabelFormat labels a day inside a weekly trend (e.g. "Mon")
	WeekdayLabelFormat = "Mon"

	// WeekRangeEndFormat labels the last day of a week range (e.g. "Mar 10, 2025")
	WeekRangeEndFormat = "Jan 2, 2006"

	// Legacy flat key-value storage
	LegacyActivitiesKey = "timewise_activities_v1"
	LegacyGoalsKey      = "timewise_goals_v1"
	LegacyFileName      = "localstorage.json"

	// Recent context (coaching baseline)
	RecentContextDays       = 3
	RecentContextTopN       = 3
	NoRecentDataSentinel    = "No data from the last 3 days."
	NoRecentHistorySentinel = "No previous history available."

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "timewise-"
	BackupFileSuffix = ".db"

	// Load constants
	DefaultLoadTimeout = 5 * time.Second

	DaysPerWeek = 7
)
