package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/tui/components/chart"
)

// Theme is the palette for one of the two display modes.
type Theme struct {
	Dark bool

	Title   lipgloss.Style
	Toggle  lipgloss.Style
	Banner  lipgloss.Style
	Status  lipgloss.Style
	Danger  lipgloss.Style
	Warning lipgloss.Style
	Doc     lipgloss.Style
}

func darkTheme() Theme {
	return Theme{
		Dark: true,
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true),
		Toggle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")).
			Padding(0, 1),
		Banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Bold(true).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Italic(true),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true),
		Doc: lipgloss.NewStyle().Padding(1, 2),
	}
}

func lightTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Padding(0, 1).
			Bold(true),
		Toggle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("130")).
			Padding(0, 1),
		Banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("160")).
			Bold(true).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Italic(true),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("160")).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("130")).
			Italic(true),
		Doc: lipgloss.NewStyle().Padding(1, 2),
	}
}

// ThemeFor returns the palette for the dark-mode flag.
func ThemeFor(dark bool) Theme {
	if dark {
		return darkTheme()
	}
	return lightTheme()
}

func (t Theme) form() *huh.Theme {
	if t.Dark {
		return huh.ThemeDracula()
	}
	return huh.ThemeBase16()
}

func (t Theme) chart() chart.Options {
	opts := chart.DefaultOptions()
	if !t.Dark {
		opts.Point = opts.Point.Foreground(lipgloss.Color("62"))
		opts.Line = opts.Line.Foreground(lipgloss.Color("246"))
		opts.Axis = opts.Axis.Foreground(lipgloss.Color("240"))
	}
	return opts
}
