package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	var banner string
	alerter := reminder.AlerterFunc(func(message string) { banner = message })
	if _, err := resolvePermission(ctx, alerter); err != nil {
		return fmt.Errorf("failed to resolve notification permission: %w", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	hs, err := ctx.HabitStore()
	if err != nil {
		return err
	}

	opts := []tui.Option{tui.WithBanner(banner)}
	if trayAvailable() {
		opts = append(opts, tui.WithNotifier(notifier.NewTray()))
	} else {
		logger.Debug("Tray companion not running; reminders will show in the status line only")
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, hs, settings, opts...), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
