package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
)

func validateReminderTime(s string) error {
	if _, err := time.Parse(constants.TimeFormat, s); err != nil {
		return fmt.Errorf("use HH:MM, e.g. %s", constants.DefaultReminderTime)
	}
	return nil
}

// NewHabitForm asks for a habit name and the daily reminder time.
func NewHabitForm(fm *HabitFormModel, theme *huh.Theme) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit").
				Placeholder("e.g. Read 20 pages").
				Value(&fm.Name),
			huh.NewInput().
				Title("Reminder time").
				Description("Applies to all habits (HH:MM)").
				Value(&fm.ReminderTime).
				Validate(validateReminderTime),
		),
	).WithTheme(theme)
}

// NewEditForm renames an existing habit.
func NewEditForm(fm *EditFormModel, theme *huh.Theme) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name),
		),
	).WithTheme(theme)
}
