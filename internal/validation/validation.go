// Package validation checks a stored habit list for states the habit
// controller can never produce.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateID       ConflictType = "duplicate_id"
	ConflictEmptyName         ConflictType = "empty_name"
	ConflictNegativeStreak    ConflictType = "negative_streak"
	ConflictInvalidDate       ConflictType = "invalid_date"
	ConflictCompletedNoDate   ConflictType = "completed_without_date"
	ConflictCompletedInFuture ConflictType = "completed_in_future"
)

// Conflict is one problem found in the habit list.
type Conflict struct {
	Type        ConflictType
	Description string
	HabitID     int64
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Summary joins the conflict descriptions on one line.
func (r *Result) Summary() string {
	descs := make([]string, len(r.Conflicts))
	for i, c := range r.Conflicts {
		descs[i] = c.Description
	}
	return strings.Join(descs, "; ")
}

type Validator struct {
	today string
}

// New returns a validator that treats today (YYYY-MM-DD) as the latest valid
// completion date. An empty today skips the future-date check.
func New(today string) *Validator {
	return &Validator{today: today}
}

// ValidateHabits reports every conflict in list order.
func (v *Validator) ValidateHabits(habits []models.Habit) Result {
	var res Result
	add := func(t ConflictType, id int64, format string, args ...any) {
		res.Conflicts = append(res.Conflicts, Conflict{
			Type:        t,
			Description: fmt.Sprintf(format, args...),
			HabitID:     id,
		})
	}

	seen := make(map[int64]bool, len(habits))
	for _, h := range habits {
		if seen[h.ID] {
			add(ConflictDuplicateID, h.ID, "duplicate habit id %d", h.ID)
		}
		seen[h.ID] = true

		if strings.TrimSpace(h.Name) == "" {
			add(ConflictEmptyName, h.ID, "habit %d has an empty name", h.ID)
		}
		if h.Streak < 0 {
			add(ConflictNegativeStreak, h.ID, "habit %q has a negative streak (%d)", h.Name, h.Streak)
		}
		if h.LastCompleted != "" {
			if _, err := time.Parse(constants.DateFormat, h.LastCompleted); err != nil {
				add(ConflictInvalidDate, h.ID, "habit %q has an invalid lastCompleted date %q", h.Name, h.LastCompleted)
			} else if v.today != "" && h.LastCompleted > v.today {
				add(ConflictCompletedInFuture, h.ID, "habit %q was completed in the future (%s)", h.Name, h.LastCompleted)
			}
		}
		if h.Completed && h.LastCompleted == "" {
			add(ConflictCompletedNoDate, h.ID, "habit %q is completed but has no completion date", h.Name)
		}
	}
	return res
}
