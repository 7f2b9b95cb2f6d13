// Package reminder decides when habit reminders fire and drives the
// periodic check that delivers them.
package reminder

import (
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// Message returns the reminder text for a habit name.
func Message(name string) string {
	return `Reminder: Time to complete your habit "` + name + `"!`
}

// Due returns one reminder per habit, in list order, when now's HH:MM equals
// reminderTime. Completion state is not consulted.
func Due(now time.Time, reminderTime string, habits []models.Habit) []string {
	if now.Format(constants.TimeFormat) != reminderTime {
		return nil
	}
	messages := make([]string, 0, len(habits))
	for _, h := range habits {
		messages = append(messages, Message(h.Name))
	}
	return messages
}
