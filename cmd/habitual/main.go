package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/backups"
	"github.com/julianstephens/habitual/internal/cli/habits"
	"github.com/julianstephens/habitual/internal/cli/settings"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Data location: a .db path (SQLite), a .json path, or a PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use the environment, .pgpass, or OS keyring instead." type:"string" default:"~/.config/habitual/habitual.db"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize habitual storage."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive habit view." default:"1"`
	Remind   system.RemindCmd     `cmd:"" help:"Run the reminder clock in the foreground."`
	Notify   system.NotifyCmd     `cmd:"" help:"Manage notification permission and delivery."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits."`
	Chart    habits.ChartCmd      `cmd:"" help:"Show the streak chart."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// configFile returns the YAML defaults file, overridable with HABITUAL_CONFIG.
func configFile() string {
	if path := os.Getenv("HABITUAL_CONFIG"); path != "" {
		return path
	}
	return constants.DefaultConfigFile
}

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily habit tracker with streaks and reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(config.YAML, configFile()),
		kong.Vars{"version": constants.Version},
	)
	command := strings.Fields(ctx.Command())[0]

	configDir, err := storage.ExpandPath(filepath.Dir(constants.DefaultConfigFile))
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir,
		Quiet:     command == "tui",
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	location, trusted := cli.ResolveLocation(CLI.Config)
	backend, err := cli.OpenBackend(location, trusted)
	if err != nil {
		errors.Fatal(err)
	}
	store := storage.NewStore(backend)

	appCtx := &cli.Context{
		Store: store,
	}

	// Init creates storage, doctor reports load failures itself and the
	// keyring commands must work before the database is reachable
	switch command {
	case "init", "doctor", "keyring":
	default:
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	errors.Fatal(err)
}
