package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/habit"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/jsonfile"
)

func newStore(t *testing.T) (*storage.Store, storage.Backend) {
	t.Helper()
	backend := jsonfile.NewStore(filepath.Join(t.TempDir(), "habitual.json"))
	s := storage.NewStore(backend)
	require.NoError(t, s.Init())
	return s, backend
}

func TestInitSeedsDefaults(t *testing.T) {
	s, backend := newStore(t)

	habits, err := s.GetHabits()
	require.NoError(t, err)
	assert.Empty(t, habits)

	raw, ok, err := backend.Get(constants.KeyHabits)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)

	settings, err := s.GetSettings()
	require.NoError(t, err)
	want := models.Settings{
		DarkMode:               false,
		ReminderTime:           constants.DefaultReminderTime,
		NotificationPermission: models.PermissionUnasked,
		Timezone:               constants.DefaultTimezone,
	}
	if diff := cmp.Diff(want, settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestInitKeepsExistingValues(t *testing.T) {
	s, backend := newStore(t)
	require.NoError(t, s.SaveHabits([]models.Habit{{ID: 7, Name: "Journal"}}))
	require.NoError(t, backend.Put(constants.KeyReminderTime, "22:00"))
	require.NoError(t, s.SaveDarkMode(true))

	require.NoError(t, s.Init())

	habits, err := s.GetHabits()
	require.NoError(t, err)
	assert.Len(t, habits, 1)

	settings, err := s.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "22:00", settings.ReminderTime)
	assert.True(t, settings.DarkMode)
}

func TestInitKeepsBrowserDarkMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitual.json")
	doc := `{"version":1,"values":{"habits":"[{\"id\":1,\"name\":\"Read\",\"completed\":false,\"streak\":2}]","darkMode":"true"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	s := storage.NewStore(jsonfile.NewStore(path))
	require.NoError(t, s.Init())

	dark, err := s.GetDarkMode()
	require.NoError(t, err)
	assert.True(t, dark, "init must not reset an existing darkMode")

	settings, err := s.GetSettings()
	require.NoError(t, err)
	assert.True(t, settings.DarkMode)
	assert.Equal(t, constants.DefaultReminderTime, settings.ReminderTime)
	assert.Equal(t, models.PermissionUnasked, settings.NotificationPermission)

	habits, err := s.GetHabits()
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, 2, habits[0].Streak)
}

func TestDarkModeStoredAsString(t *testing.T) {
	s, backend := newStore(t)

	require.NoError(t, s.SaveDarkMode(true))
	raw, _, err := backend.Get(constants.KeyDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "true", raw)

	on, err := s.GetDarkMode()
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, backend.Put(constants.KeyDarkMode, "yes"))
	on, err = s.GetDarkMode()
	require.NoError(t, err)
	assert.False(t, on, "unrecognized values read as false")
}

func TestCorruptHabitsSnapshot(t *testing.T) {
	s, backend := newStore(t)
	require.NoError(t, backend.Put(constants.KeyHabits, "{not json"))

	_, err := s.GetHabits()
	assert.True(t, errors.Is(err, storage.ErrCorruptSnapshot), "got %v", err)
}

func TestSavePermission(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.SavePermission(models.PermissionDenied))

	settings, err := s.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, models.PermissionDenied, settings.NotificationPermission)
}

func TestBrowserCompletionCountsAsToday(t *testing.T) {
	s, backend := newStore(t)
	require.NoError(t, backend.Put(constants.KeyHabits,
		`[{"id":1,"name":"Stretch","completed":true,"streak":4,"lastCompleted":"Sat Mar 14 2026"}]`))

	loaded, err := s.GetHabits()
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC) }
	hs := habit.New(loaded, s, habit.WithClock(now), habit.WithLocation(time.UTC))

	changed, err := hs.ToggleComplete(1)
	require.NoError(t, err)
	assert.False(t, changed)

	h, err := hs.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 4, h.Streak)
	assert.True(t, h.Completed)
}
