package storage

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// Store provides typed access to the habit snapshot and settings on top of a Backend.
type Store struct {
	backend Backend
}

// NewStore wraps a backend.
func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// Init creates the backend and seeds each setting key that is missing.
// Keys already present are left untouched.
func (s *Store) Init() error {
	if err := s.backend.Init(); err != nil {
		return err
	}

	defaults := models.Settings{}
	models.ApplyDefaultSettings(&defaults)
	seeds := []struct{ key, value string }{
		{constants.KeyDarkMode, strconv.FormatBool(defaults.DarkMode)},
		{constants.KeyReminderTime, defaults.ReminderTime},
		{constants.KeyNotificationPermission, string(defaults.NotificationPermission)},
		{constants.KeyTimezone, defaults.Timezone},
	}
	for _, seed := range seeds {
		if _, ok, err := s.backend.Get(seed.key); err != nil {
			return err
		} else if ok {
			continue
		}
		if err := s.backend.Put(seed.key, seed.value); err != nil {
			return fmt.Errorf("failed to save default %s: %w", seed.key, err)
		}
	}

	if _, ok, err := s.backend.Get(constants.KeyHabits); err != nil {
		return err
	} else if !ok {
		if err := s.SaveHabits(nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Load() error  { return s.backend.Load() }
func (s *Store) Close() error { return s.backend.Close() }

// Path returns the backend location identifier.
func (s *Store) Path() string { return s.backend.Path() }

// GetHabits reads the full habit list snapshot.
func (s *Store) GetHabits() ([]models.Habit, error) {
	value, _, err := s.backend.Get(constants.KeyHabits)
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	return DecodeHabits(value)
}

// SaveHabits overwrites the full habit list snapshot.
func (s *Store) SaveHabits(habits []models.Habit) error {
	value, err := EncodeHabits(habits)
	if err != nil {
		return err
	}
	if err := s.backend.Put(constants.KeyHabits, value); err != nil {
		return fmt.Errorf("failed to write habits: %w", err)
	}
	return nil
}

// GetDarkMode reads the dark-mode flag. A missing or unparsable value is false.
func (s *Store) GetDarkMode() (bool, error) {
	value, ok, err := s.backend.Get(constants.KeyDarkMode)
	if err != nil {
		return false, fmt.Errorf("failed to read dark mode: %w", err)
	}
	if !ok {
		return false, nil
	}
	return value == "true", nil
}

// SaveDarkMode writes the dark-mode flag as "true" or "false".
func (s *Store) SaveDarkMode(on bool) error {
	if err := s.backend.Put(constants.KeyDarkMode, strconv.FormatBool(on)); err != nil {
		return fmt.Errorf("failed to write dark mode: %w", err)
	}
	return nil
}

// GetSettings reads all settings, applying defaults for missing keys.
func (s *Store) GetSettings() (models.Settings, error) {
	settings := models.Settings{}

	darkMode, err := s.GetDarkMode()
	if err != nil {
		return models.Settings{}, err
	}
	settings.DarkMode = darkMode

	for _, key := range []string{constants.KeyReminderTime, constants.KeyNotificationPermission, constants.KeyTimezone} {
		value, ok, err := s.backend.Get(key)
		if err != nil {
			return models.Settings{}, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		switch key {
		case constants.KeyReminderTime:
			settings.ReminderTime = value
		case constants.KeyNotificationPermission:
			settings.NotificationPermission = models.ParsePermission(value)
		case constants.KeyTimezone:
			settings.Timezone = value
		}
	}

	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// SaveSettings writes every setting.
func (s *Store) SaveSettings(settings models.Settings) error {
	if err := s.SaveDarkMode(settings.DarkMode); err != nil {
		return err
	}
	values := map[string]string{
		constants.KeyReminderTime:           settings.ReminderTime,
		constants.KeyNotificationPermission: string(settings.NotificationPermission),
		constants.KeyTimezone:               settings.Timezone,
	}
	for key, value := range values {
		if err := s.backend.Put(key, value); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	return nil
}

// SavePermission persists only the notification permission state.
func (s *Store) SavePermission(p models.Permission) error {
	if err := s.backend.Put(constants.KeyNotificationPermission, string(p)); err != nil {
		return fmt.Errorf("failed to write notification permission: %w", err)
	}
	return nil
}
