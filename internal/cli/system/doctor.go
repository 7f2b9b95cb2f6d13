package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/validation"
)

// trayAvailable is replaced in tests.
var trayAvailable = func() bool { return notifier.NewTray().Available() }

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}
	skip := func(name string) {
		ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", name)
	}

	reachable := false
	if err := checkStorageReachable(ctx); err != nil {
		fail("Storage reachable", err)
	} else {
		ctx.Println("✓ Storage reachable: OK")
		reachable = true
	}

	if !reachable {
		skip("Schema version")
	} else if checker, ok := ctx.Store.Backend().(storage.SchemaChecker); !ok {
		ctx.Println("⊘ Schema version: SKIPPED (backend has no schema)")
	} else if err := checkSchemaVersion(checker); err != nil {
		fail("Schema version", err)
	} else {
		ctx.Println("✓ Schema version: OK")
	}

	var settings models.Settings
	settingsOK := false
	if !reachable {
		skip("Settings")
	} else if s, err := checkSettings(ctx); err != nil {
		fail("Settings", err)
	} else {
		ctx.Println("✓ Settings: OK")
		settings, settingsOK = s, true
	}

	if !reachable {
		skip("Habit integrity")
	} else if err := checkHabitsIntegrity(ctx, settings); err != nil {
		fail("Habit integrity", err)
	} else {
		ctx.Println("✓ Habit integrity: OK")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		ctx.Println("⚠ Backups present: WARNING")
		ctx.Printf("   %v\n", err)
	} else {
		ctx.Println("✓ Backups present: OK")
	}

	if err := checkClockTimezone(settings, settingsOK); err != nil {
		fail("Clock/timezone", err)
	} else {
		ctx.Println("✓ Clock/timezone: OK")
	}

	if !settingsOK {
		ctx.Println("⊘ Notifications: SKIPPED (settings unavailable)")
	} else if settings.NotificationPermission != models.PermissionGranted {
		ctx.Println("⚠ Notifications: WARNING")
		ctx.Printf("   permission is %s - reminders will not be delivered (see 'habitual notify permission')\n", settings.NotificationPermission)
	} else if !trayAvailable() {
		ctx.Println("⚠ Notifications: WARNING")
		ctx.Println("   desktop tray companion is not running - reminders fall back to NATS or stdout")
	} else {
		ctx.Println("✓ Notifications: OK")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, _, err := ctx.Store.Backend().Get(constants.KeyHabits); err != nil {
		return fmt.Errorf("failed to query storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(checker storage.SchemaChecker) error {
	current, latest, err := checker.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) (models.Settings, error) {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return models.Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func checkHabitsIntegrity(ctx *cli.Context, settings models.Settings) error {
	habits, err := ctx.Store.GetHabits()
	if err != nil {
		return err
	}

	loc, err := settings.Location()
	if err != nil {
		loc = time.Local
	}
	today := ctx.Clock()().In(loc).Format(constants.DateFormat)

	res := validation.New(today).ValidateHabits(habits)
	if res.HasConflicts() {
		return errors.New(res.Summary())
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.Backend().(*sqlite.Store); !ok {
		return fmt.Errorf("backups are only created for the SQLite backend")
	}
	backups, err := backup.NewManager(ctx.Store.Path()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkClockTimezone(settings models.Settings, ok bool) error {
	loc := time.Local
	if ok {
		l, err := settings.Location()
		if err != nil {
			return err
		}
		loc = l
	}

	now := time.Now().In(loc)
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if _, err := time.ParseInLocation(constants.DateFormat, now.Format(constants.DateFormat), loc); err != nil {
		return fmt.Errorf("failed to round-trip today's date: %w", err)
	}
	return nil
}
