package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/habit"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) (bool, error)

type Context struct {
	Store *storage.Store

	// Out receives command output. Defaults to stdout.
	Out io.Writer
	// Confirmer answers destructive prompts. Defaults to an interactive huh confirm.
	Confirmer ConfirmFunc
	// Now overrides the wall clock.
	Now func() time.Time
}

func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

// Clock returns the wall clock, honoring Now.
func (c *Context) Clock() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

// Confirm asks prompt through the configured Confirmer.
func (c *Context) Confirm(prompt string) (bool, error) {
	if c.Confirmer != nil {
		return c.Confirmer(prompt)
	}
	return HuhConfirm(prompt)
}

// HuhConfirm shows an interactive yes/no prompt.
func HuhConfirm(prompt string) (bool, error) {
	confirmed := false
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		WithTheme(huh.ThemeDracula()).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

// LineConfirm reads a y/N answer from r.
func LineConfirm(r io.Reader, w io.Writer) ConfirmFunc {
	reader := bufio.NewReader(r)
	return func(prompt string) (bool, error) {
		fmt.Fprintf(w, "%s [y/N]: ", prompt)
		response, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		return response == "y" || response == "yes", nil
	}
}

// HabitStore loads the habit list into a controller bound to the configured
// time zone and applies the daily roll-over.
func (c *Context) HabitStore() (*habit.Store, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}
	habits, err := c.Store.GetHabits()
	if err != nil {
		return nil, err
	}

	hs := habit.New(habits, c.Store, habit.WithClock(c.Clock()), habit.WithLocation(loc))
	if _, err := hs.RollOver(); err != nil {
		return nil, err
	}
	return hs, nil
}

// PerformAutomaticBackup creates a backup of the SQLite data file and only
// logs failures. Other backends are skipped.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.Backend().(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.Path())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
