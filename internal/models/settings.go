package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// Permission is the notification permission state.
type Permission string

const (
	PermissionUnasked Permission = "unasked"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission converts a stored value into a Permission. Unknown or empty
// values map to PermissionUnasked.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionUnasked
	}
}

// Settings represents application-wide settings
type Settings struct {
	DarkMode               bool       `json:"darkMode"`
	ReminderTime           string     `json:"reminderTime"`           // HH:MM
	NotificationPermission Permission `json:"notificationPermission"` // unasked, granted or denied
	Timezone               string     `json:"timezone"`               // IANA name or "Local"
}

// ApplyDefaultSettings fills in missing settings.
func ApplyDefaultSettings(s *Settings) {
	if s.ReminderTime == "" {
		s.ReminderTime = constants.DefaultReminderTime
	}
	if s.NotificationPermission == "" {
		s.NotificationPermission = PermissionUnasked
	}
	if s.Timezone == "" {
		s.Timezone = constants.DefaultTimezone
	}
}

// Validate checks the reminder time and time zone.
func (s Settings) Validate() error {
	if _, err := time.Parse(constants.TimeFormat, s.ReminderTime); err != nil {
		return fmt.Errorf("invalid reminder time %q (expected HH:MM): %w", s.ReminderTime, err)
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone.
func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
