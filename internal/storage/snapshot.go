package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// browserDateFormat is the layout of Date.toDateString, which browser
// snapshots used for lastCompleted ("Sat Mar 14 2026").
const browserDateFormat = "Mon Jan 02 2006"

var (
	// ErrCorruptSnapshot is returned when a persisted habit list cannot be parsed.
	ErrCorruptSnapshot = errors.New("stored habit list is corrupt")
	// ErrNotInitialized is returned by Load when storage has not been created yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'habitual init' first")
)

// EncodeHabits serializes the full habit list.
func EncodeHabits(habits []models.Habit) (string, error) {
	if habits == nil {
		habits = []models.Habit{}
	}
	data, err := json.Marshal(habits)
	if err != nil {
		return "", fmt.Errorf("failed to serialize habits: %w", err)
	}
	return string(data), nil
}

// DecodeHabits parses a snapshot written by EncodeHabits. An empty value or
// JSON null yields an empty list. Browser-style lastCompleted dates are
// rewritten to the calendar-day format.
func DecodeHabits(value string) ([]models.Habit, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "null" {
		return []models.Habit{}, nil
	}
	var habits []models.Habit
	if err := json.Unmarshal([]byte(value), &habits); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	for i := range habits {
		habits[i].LastCompleted = normalizeDate(habits[i].LastCompleted)
	}
	return habits, nil
}

func normalizeDate(day string) string {
	if day == "" {
		return day
	}
	if _, err := time.Parse(constants.DateFormat, day); err == nil {
		return day
	}
	if t, err := time.Parse(browserDateFormat, day); err == nil {
		return t.Format(constants.DateFormat)
	}
	return day
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// IsPostgres reports whether config is a PostgreSQL connection string.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") ||
		strings.HasPrefix(config, "postgresql://") ||
		strings.Contains(config, "host=")
}

// IsJSONFile reports whether config points at a JSON file store.
func IsJSONFile(config string) bool {
	return strings.EqualFold(filepath.Ext(config), ".json")
}
