package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/tui/components/chart"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateHabits:
		content = m.theme.Doc.Render(m.habitsModel.View())
	case StateChart:
		content = m.viewChart()
	case StateAddHabit, StateEditHabit:
		content = m.viewForm()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	sections := []string{m.viewHeader()}
	if m.banner != "" {
		sections = append(sections, m.theme.Banner.Render(m.banner))
	}
	sections = append(sections, content)
	if m.status != "" {
		sections = append(sections, m.theme.Status.Render(m.status))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	mode := "☀ light"
	if m.theme.Dark {
		mode = "☾ dark"
	}
	title := m.theme.Title.Render("habitual")
	toggle := m.theme.Toggle.Render(fmt.Sprintf("[t] %s", mode))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(toggle)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, lipgloss.NewStyle().Width(gap).Render(""), toggle)
}

func (m Model) viewChart() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Habit Streaks"),
		"",
		chart.Render(chart.Points(m.habits.List()), m.theme.chart()),
	)
	return m.theme.Doc.Render(body)
}

func (m Model) viewForm() string {
	view := m.form.View()
	if m.formError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, "", m.theme.Danger.Render(m.formError))
	}
	return m.theme.Doc.Render(view)
}

func (m Model) viewConfirmDelete() string {
	name := "this habit"
	if h, err := m.habits.Get(m.deleteID); err == nil {
		name = fmt.Sprintf("%q", h.Name)
	}
	return lipgloss.Place(m.width, max(m.height-chromeHeight, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			m.theme.Danger.Render(fmt.Sprintf("Delete %s?", name)),
			m.theme.Warning.Render("Its streak will be lost."),
			"",
			"[y] Yes   [n] No",
		),
	)
}
