package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
)

type NotifyCmd struct {
	Permission NotifyPermissionCmd `cmd:"" help:"Show, ask for, or change the notification permission." default:"1"`
	Test       NotifyTestCmd       `cmd:"" help:"Send a test reminder through the configured sinks."`
}

type NotifyPermissionCmd struct {
	Grant  bool `xor:"permission" help:"Allow reminders."`
	Deny   bool `xor:"permission" help:"Block reminders."`
	Reset  bool `xor:"permission" help:"Forget the decision so the next launch asks again."`
	Prompt bool `xor:"permission" help:"Ask now if the permission is undecided."`
}

func (c *NotifyPermissionCmd) Run(ctx *cli.Context) error {
	var target models.Permission
	switch {
	case c.Grant:
		target = models.PermissionGranted
	case c.Deny:
		target = models.PermissionDenied
	case c.Reset:
		target = models.PermissionUnasked
	case c.Prompt:
		state, err := resolvePermission(ctx, reminder.AlerterFunc(func(msg string) {
			ctx.Println(msg)
		}))
		if err != nil {
			return err
		}
		ctx.Printf("Notification permission: %s\n", state)
		return nil
	default:
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		ctx.Printf("Notification permission: %s\n", settings.NotificationPermission)
		return nil
	}

	if err := ctx.Store.SavePermission(target); err != nil {
		return err
	}
	ctx.Printf("Notification permission set to: %s\n", target)
	return nil
}

var errNotGranted = errors.New("notifications are not granted; run 'habitual notify permission --grant' first")

type NotifyTestCmd struct {
	SinkFlags `embed:""`
}

func (c *NotifyTestCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.NotificationPermission != models.PermissionGranted {
		return errNotGranted
	}

	n, closeFn, err := c.build(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := n.Notify(reminder.Message("habitual test")); err != nil {
		return fmt.Errorf("failed to send test reminder: %w", err)
	}
	ctx.Println("✓ Test reminder sent")
	return nil
}
