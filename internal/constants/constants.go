package constants

import "time"

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	DefaultConfigFile  = "~/.config/habitual/config.yaml"
	Version            = "v0.1.0"

	// Environment variables
	EnvDBConnection = "HABITUAL_DB_CONNECTION"
	EnvNATSURL      = "HABITUAL_NATS_URL"

	// DateFormat is the calendar-day format used for lastCompleted (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the time-of-day format used for reminders (HH:MM)
	TimeFormat = "15:04"

	// Storage keys
	KeyHabits                 = "habits"
	KeyDarkMode               = "darkMode"
	KeyReminderTime           = "reminderTime"
	KeyNotificationPermission = "notificationPermission"
	KeyTimezone               = "timezone"

	// Default settings values
	DefaultReminderTime = "08:00"
	DefaultTimezone     = "Local"

	// Reminder clock
	ReminderPeriod = 60 * time.Second

	// Badge thresholds (inclusive lower bounds)
	BronzeStreakDays = 7
	SilverStreakDays = 30
	GoldStreakDays   = 60

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "habitual-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitual"
	TrayProcessPrefix      = "habitual-tray"
	DefaultNATSSubject     = "habitual.reminders"

	// Watcher debounce for bursts of writes to the data file
	WatchDebounce = 250 * time.Millisecond
)
