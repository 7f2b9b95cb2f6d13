package habits

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/habit"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/chart"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with streaks and badges." default:"1"`
	Done   HabitDoneCmd   `cmd:"" help:"Mark a habit complete for today."`
	Rename HabitRenameCmd `cmd:"" help:"Rename a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
	Badge  HabitBadgeCmd  `cmd:"" help:"Show the badge earned by a streak length."`
}

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.HabitStore()
	if err != nil {
		return err
	}

	h, added, err := hs.Add(c.Name)
	if err != nil {
		return err
	}
	if !added {
		ctx.Println("Habit name cannot be empty; nothing added.")
		return nil
	}
	ctx.Printf("Added habit: %s (id %d)\n", h.Name, h.ID)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.HabitStore()
	if err != nil {
		return err
	}

	list := hs.List()
	if len(list) == 0 {
		ctx.Println("No habits yet. Add one with 'habitual habit add <name>'.")
		return nil
	}
	for _, h := range list {
		ctx.Println(FormatHabit(h))
	}
	return nil
}

// FormatHabit renders one habit as a single list line.
func FormatHabit(h models.Habit) string {
	mark := "○"
	if h.Completed {
		mark = "✓"
	}
	line := fmt.Sprintf("%s %s  [id %d]  streak: %d", mark, h.Name, h.ID, h.Streak)
	if label := habit.BadgeFor(h.Streak).Label(); label != "" {
		line += "  " + label
	}
	return line
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.HabitStore()
	if err != nil {
		return err
	}
	h, err := hs.Find(c.Habit)
	if err != nil {
		return err
	}

	changed, err := hs.ToggleComplete(h.ID)
	if err != nil {
		return err
	}
	if !changed {
		ctx.Printf("%q is already completed today.\n", h.Name)
		return nil
	}

	h, err = hs.Get(h.ID)
	if err != nil {
		return err
	}
	ctx.Printf("Completed %q. Streak: %d\n", h.Name, h.Streak)
	if label := habit.BadgeFor(h.Streak).Label(); label != "" {
		ctx.Println(label)
	}
	return nil
}

type HabitRenameCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Name  string `arg:"" help:"New name."`
}

func (c *HabitRenameCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.HabitStore()
	if err != nil {
		return err
	}
	h, err := hs.Find(c.Habit)
	if err != nil {
		return err
	}

	changed, err := hs.Rename(h.ID, c.Name)
	if err != nil {
		return err
	}
	if !changed {
		ctx.Println("New name cannot be empty; nothing changed.")
		return nil
	}
	renamed, err := hs.Get(h.ID)
	if err != nil {
		return err
	}
	ctx.Printf("Renamed %q to %q\n", h.Name, renamed.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.HabitStore()
	if err != nil {
		return err
	}
	h, err := hs.Find(c.Habit)
	if err != nil {
		return err
	}

	var promptErr error
	confirmer := habit.ConfirmFunc(func(prompt string) bool {
		if c.Yes {
			return true
		}
		ok, err := ctx.Confirm(fmt.Sprintf("%s (%s)", prompt, h.Name))
		promptErr = err
		return ok
	})

	deleted, err := hs.Delete(h.ID, confirmer)
	if err != nil {
		return err
	}
	if promptErr != nil {
		return fmt.Errorf("confirmation failed: %w", promptErr)
	}
	if !deleted {
		ctx.Println("Delete cancelled.")
		return nil
	}
	ctx.Printf("Deleted habit: %s\n", h.Name)
	return nil
}

type HabitBadgeCmd struct {
	Streak string `arg:"" help:"Streak length in days."`
}

func (c *HabitBadgeCmd) Run(ctx *cli.Context) error {
	streak, err := strconv.Atoi(c.Streak)
	if err != nil {
		return fmt.Errorf("invalid streak %q: %w", c.Streak, err)
	}
	if streak < 0 {
		return errors.New("streak cannot be negative")
	}

	label := habit.BadgeFor(streak).Label()
	if label == "" {
		ctx.Printf("No badge yet for a %d-day streak.\n", streak)
		return nil
	}
	ctx.Println(label)
	return nil
}

type ChartCmd struct {
	Height int `help:"Chart height in rows." default:"8"`
}

func (c *ChartCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.HabitStore()
	if err != nil {
		return err
	}

	opts := chart.DefaultOptions()
	if c.Height > 0 {
		opts.Height = c.Height
	}
	ctx.Println("Habit Streaks")
	ctx.Println(chart.Render(chart.Points(hs.List()), opts))
	return nil
}
