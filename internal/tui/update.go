package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/habit"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

// chromeHeight is the space taken by the header, banner, status and help lines.
const chromeHeight = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitsModel.SetSize(max(msg.Width-4, 0), max(msg.Height-chromeHeight, 0))
		return m, nil

	case reminderTickMsg:
		cmd := tea.Batch(m.checkReminders(), m.tickCmd())
		return m, cmd

	case reminderResultMsg:
		m.applyReminderResult(msg)
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateEditHabit:
		return m.updateEditHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		cmd := m.openAddForm()
		return m, cmd

	case habits.CompleteHabitMsg:
		m.complete(msg.ID)
		return m, nil

	case habits.EditHabitMsg:
		h, err := m.habits.Get(msg.ID)
		if err != nil {
			return m, nil
		}
		m.editingID = h.ID
		m.editForm = &EditFormModel{Name: h.Name}
		m.form = NewEditForm(m.editForm, m.theme.form())
		m.formError = ""
		m.state = StateEditHabit
		cmd := m.form.Init()
		return m, cmd

	case habits.DeleteHabitMsg:
		m.deleteID = msg.ID
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			m.toggleTheme()
			return m, nil
		case key.Matches(msg, m.keys.Chart):
			if m.state == StateChart {
				m.state = StateHabits
			} else {
				m.state = StateChart
			}
			return m, nil
		case key.Matches(msg, m.keys.Add):
			cmd := m.openAddForm()
			return m, cmd
		case key.Matches(msg, m.keys.Back):
			if m.state == StateChart {
				m.state = StateHabits
			}
			m.banner = ""
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.state == StateHabits {
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	}
	return m, cmd
}

func (m *Model) openAddForm() tea.Cmd {
	m.habitForm = &HabitFormModel{ReminderTime: m.settings.ReminderTime}
	m.form = NewHabitForm(m.habitForm, m.theme.form())
	m.formError = ""
	m.state = StateAddHabit
	return m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.formError = ""
		m.state = StateHabits
		return m, nil
	}

	cmd := m.updateForm(msg)

	switch m.form.State {
	case huh.StateCompleted:
		h, added, err := m.habits.Add(m.habitForm.Name)
		if err != nil {
			logger.Error("Failed to add habit", "error", err)
			m.formError = fmt.Sprintf("Could not save habit: %v", err)
			m.form.State = huh.StateNormal
			return m, cmd
		}
		if added {
			m.status = fmt.Sprintf("Added %q", h.Name)
		} else {
			m.status = "Habit name cannot be empty; nothing added."
		}
		if m.habitForm.ReminderTime != m.settings.ReminderTime {
			next := m.settings
			next.ReminderTime = m.habitForm.ReminderTime
			if err := m.store.SaveSettings(next); err != nil {
				logger.Error("Failed to save reminder time", "error", err)
				m.status = fmt.Sprintf("Could not save reminder time: %v", err)
			} else {
				m.settings = next
			}
		}
		m.habitsModel.SetHabits(m.habits.List())
		m.formError = ""
		m.state = StateHabits
	case huh.StateAborted:
		m.formError = ""
		m.state = StateHabits
	}
	return m, cmd
}

func (m Model) updateEditHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.formError = ""
		m.state = StateHabits
		return m, nil
	}

	cmd := m.updateForm(msg)

	switch m.form.State {
	case huh.StateCompleted:
		renamed, err := m.habits.Rename(m.editingID, m.editForm.Name)
		if err != nil {
			logger.Error("Failed to rename habit", "error", err)
			m.formError = fmt.Sprintf("Could not save habit: %v", err)
			m.form.State = huh.StateNormal
			return m, cmd
		}
		if !renamed {
			m.status = "Habit name cannot be empty; name unchanged."
		} else {
			m.status = fmt.Sprintf("Renamed to %q", m.editForm.Name)
		}
		m.habitsModel.SetHabits(m.habits.List())
		m.editingID = 0
		m.formError = ""
		m.state = StateHabits
	case huh.StateAborted:
		m.editingID = 0
		m.formError = ""
		m.state = StateHabits
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		approve := habit.ConfirmFunc(func(string) bool { return true })
		deleted, err := m.habits.Delete(m.deleteID, approve)
		switch {
		case err != nil:
			logger.Error("Failed to delete habit", "error", err)
			m.status = fmt.Sprintf("Could not delete habit: %v", err)
		case deleted:
			m.status = "Habit deleted."
		}
		m.habitsModel.SetHabits(m.habits.List())
		m.deleteID = 0
		m.state = StateHabits
	case key.Matches(keyMsg, m.keys.Cancel):
		m.deleteID = 0
		m.state = StateHabits
	}
	return m, nil
}

func (m *Model) complete(id int64) {
	changed, err := m.habits.ToggleComplete(id)
	if err != nil {
		logger.Error("Failed to complete habit", "error", err)
		m.status = fmt.Sprintf("Could not save progress: %v", err)
		return
	}
	if !changed {
		return
	}
	if h, err := m.habits.Get(id); err == nil {
		m.status = fmt.Sprintf("%s done! Streak: %d", h.Name, h.Streak)
		if label := habit.BadgeFor(h.Streak).Label(); label != "" {
			m.status += "  " + label
		}
	}
	m.habitsModel.SetHabits(m.habits.List())
}

func (m *Model) toggleTheme() {
	dark := !m.settings.DarkMode
	if err := m.store.SaveDarkMode(dark); err != nil {
		logger.Error("Failed to save dark mode", "error", err)
		m.status = fmt.Sprintf("Could not save theme: %v", err)
		return
	}
	m.settings.DarkMode = dark
	m.theme = ThemeFor(dark)
}

// checkReminders rolls the list over to the current day and hands a snapshot
// to the reminder clock. The tick itself runs off the update loop.
func (m *Model) checkReminders() tea.Cmd {
	changed, err := m.habits.RollOver()
	if err != nil {
		logger.Error("Failed to roll over habits", "error", err)
	}
	if changed {
		m.habitsModel.SetHabits(m.habits.List())
	}
	m.source.set(m.habits.List(), m.settings)

	clock := m.clock
	return func() tea.Msg {
		res, err := clock.Tick(context.Background())
		return reminderResultMsg{result: res, err: err}
	}
}

func (m *Model) applyReminderResult(msg reminderResultMsg) {
	if msg.err != nil {
		m.status = fmt.Sprintf("Reminder check failed: %v", msg.err)
		return
	}
	res := msg.result
	shown := m.inbox.drain()
	if len(shown) == 0 {
		shown = res.Messages
	}
	if !res.Fired || len(shown) == 0 {
		return
	}
	m.status = shown[0]
	if more := len(shown) - 1; more > 0 {
		m.status += fmt.Sprintf(" (+%d more)", more)
	}
	if res.Failed > 0 {
		m.status += fmt.Sprintf("  [%d not delivered]", res.Failed)
	}
}
