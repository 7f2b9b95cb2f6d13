package settings

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/logger"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	ReminderTime *string `help:"Daily reminder time (HH:MM)."`
	DarkMode     *bool   `help:"Use the dark theme in the TUI."`
	Timezone     *string `help:"IANA time zone that decides 'today' and the reminder clock, or 'Local'."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Reminder Time:           %s\n", settings.ReminderTime)
		ctx.Printf("  Time Zone:               %s\n", settings.Timezone)
		ctx.Printf("  Dark Mode:               %v\n", settings.DarkMode)
		ctx.Printf("  Notification Permission: %s\n", settings.NotificationPermission)
		return nil
	}

	updated := false
	if c.ReminderTime != nil {
		settings.ReminderTime = *c.ReminderTime
		updated = true
	}
	if c.DarkMode != nil {
		settings.DarkMode = *c.DarkMode
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	logger.Info("Settings updated", "reminderTime", settings.ReminderTime, "timezone", settings.Timezone, "darkMode", settings.DarkMode)
	ctx.Println("Settings updated successfully.")
	return nil
}
