package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/habit"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/jsonfile"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

var reminderAt = time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)

func setupModel(t *testing.T, names []string, opts ...Option) (Model, *storage.Store) {
	t.Helper()
	store := storage.NewStore(jsonfile.NewStore(filepath.Join(t.TempDir(), "habitual.json")))
	require.NoError(t, store.Init())

	settings, err := store.GetSettings()
	require.NoError(t, err)
	settings.Timezone = "UTC"
	settings.NotificationPermission = models.PermissionGranted
	require.NoError(t, store.SaveSettings(settings))

	now := func() time.Time { return reminderAt }
	hs := habit.New(nil, store, habit.WithClock(now), habit.WithLocation(time.UTC))
	for _, name := range names {
		_, _, err := hs.Add(name)
		require.NoError(t, err)
	}

	m := NewModel(store, hs, settings, opts...)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model), store
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestCompleteHabit(t *testing.T) {
	m, store := setupModel(t, []string{"Read"})
	id := m.habits.List()[0].ID

	m = update(t, m, habits.CompleteHabitMsg{ID: id})

	stored, err := store.GetHabits()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Completed)
	assert.Equal(t, 1, stored[0].Streak)
	assert.Contains(t, m.status, "Read done!")

	// A second completion on the same day changes nothing
	m = update(t, m, habits.CompleteHabitMsg{ID: id})
	assert.Equal(t, 1, m.habits.List()[0].Streak)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, store := setupModel(t, []string{"Read", "Run"})
	id := m.habits.List()[0].ID

	m = update(t, m, habits.DeleteHabitMsg{ID: id})
	assert.Equal(t, StateConfirmDelete, m.state)
	assert.Contains(t, m.View(), `Delete "Read"?`)

	m = update(t, m, keyPress("n"))
	assert.Equal(t, StateHabits, m.state)
	assert.Equal(t, 2, m.habits.Len())

	m = update(t, m, habits.DeleteHabitMsg{ID: id})
	m = update(t, m, keyPress("y"))
	assert.Equal(t, StateHabits, m.state)
	require.Equal(t, 1, m.habits.Len())
	assert.Equal(t, "Run", m.habits.List()[0].Name)

	stored, err := store.GetHabits()
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestThemeTogglePersists(t *testing.T) {
	m, store := setupModel(t, nil)
	require.False(t, m.theme.Dark)

	m = update(t, m, keyPress("t"))
	assert.True(t, m.theme.Dark)
	dark, err := store.GetDarkMode()
	require.NoError(t, err)
	assert.True(t, dark)
	assert.Contains(t, m.View(), "dark")

	m = update(t, m, keyPress("t"))
	assert.False(t, m.theme.Dark)
	dark, err = store.GetDarkMode()
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestChartView(t *testing.T) {
	m, _ := setupModel(t, []string{"Read"})

	m = update(t, m, keyPress("v"))
	require.Equal(t, StateChart, m.state)
	assert.Contains(t, m.View(), "Habit Streaks")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateHabits, m.state)
}

func TestAddFormOpensWithReminderTime(t *testing.T) {
	m, _ := setupModel(t, nil)

	m = update(t, m, keyPress("a"))
	require.Equal(t, StateAddHabit, m.state)
	require.NotNil(t, m.habitForm)
	assert.Equal(t, m.settings.ReminderTime, m.habitForm.ReminderTime)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateHabits, m.state)
	assert.Equal(t, 0, m.habits.Len())
}

func TestValidateReminderTime(t *testing.T) {
	assert.NoError(t, validateReminderTime("07:30"))
	assert.Error(t, validateReminderTime("7.30"))
	assert.Error(t, validateReminderTime("25:00"))
}

func TestReminderTickSendsOncePerMinute(t *testing.T) {
	var sent []string
	sink := notifier.Func(func(text string) error {
		sent = append(sent, text)
		return nil
	})
	m, _ := setupModel(t, []string{"Read", "Run"},
		WithNotifier(sink),
		WithClockwork(clockwork.NewFakeClockAt(reminderAt)),
	)

	msg := m.checkReminders()()
	m = update(t, m, msg)
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0], `"Read"`)
	assert.Contains(t, m.status, "(+1 more)")

	msg = m.checkReminders()()
	m = update(t, m, msg)
	assert.Len(t, sent, 2)
	assert.NotContains(t, m.status, "failed")
}

func TestReminderFallsBackToStatusLine(t *testing.T) {
	m, _ := setupModel(t, []string{"Read", "Run"},
		WithClockwork(clockwork.NewFakeClockAt(reminderAt)),
	)

	msg := m.checkReminders()()
	res, ok := msg.(reminderResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)
	assert.Equal(t, 2, res.result.Sent)
	assert.Zero(t, res.result.Failed)

	m = update(t, m, msg)
	assert.Contains(t, m.status, `"Read"`)
	assert.Contains(t, m.status, "(+1 more)")
	assert.Empty(t, m.inbox.drain())
}

func TestBannerDismissedWithEsc(t *testing.T) {
	m, _ := setupModel(t, nil, WithBanner(reminder.DeniedAlert))
	assert.Contains(t, m.View(), reminder.DeniedAlert)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), reminder.DeniedAlert)
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t, nil)

	next, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}
