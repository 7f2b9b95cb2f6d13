package system

import (
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/reminder"
)

// PermissionPrompt is the question asked while notification permission is undecided.
const PermissionPrompt = "Allow habitual to send you habit reminders?"

var dialNATS = func(url, subject string) (notifier.Notifier, func(), error) {
	return notifier.DialNATS(url, subject)
}

// SinkFlags selects where reminders are delivered.
type SinkFlags struct {
	NATSURL     string `name:"nats-url" env:"HABITUAL_NATS_URL" help:"Publish reminders to this NATS server."`
	NATSSubject string `name:"nats-subject" default:"habitual.reminders" help:"NATS subject for reminder events."`
	NoTray      bool   `help:"Do not deliver reminders to the desktop tray companion."`
	Stdout      bool   `help:"Also print reminders to stdout."`
}

// build assembles the configured sinks. Stdout is used when nothing else is
// available so reminders are never silently dropped.
func (f SinkFlags) build(ctx *cli.Context) (notifier.Notifier, func(), error) {
	var sinks notifier.Multi
	closers := []func(){}

	if !f.NoTray {
		if trayAvailable() {
			sinks = append(sinks, notifier.NewTray())
		} else {
			logger.Debug("Tray companion not running, skipping tray sink")
		}
	}
	if f.NATSURL != "" {
		n, closeFn, err := dialNATS(f.NATSURL, f.NATSSubject)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, n)
		closers = append(closers, closeFn)
	}
	if f.Stdout || len(sinks) == 0 {
		sinks = append(sinks, notifier.NewWriter(ctx.Writer()))
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return sinks, closeAll, nil
}

// permissionPrompter asks through the context's confirmer. A failed or
// aborted prompt leaves the permission undecided.
func permissionPrompter(ctx *cli.Context) reminder.Prompter {
	return reminder.PrompterFunc(func() models.Permission {
		ok, err := ctx.Confirm(PermissionPrompt)
		if err != nil {
			logger.Debug("Permission prompt dismissed", "error", err)
			return models.PermissionUnasked
		}
		if ok {
			return models.PermissionGranted
		}
		return models.PermissionDenied
	})
}

// resolvePermission runs the startup permission check and persists a changed state.
func resolvePermission(ctx *cli.Context, alerter reminder.Alerter) (models.Permission, error) {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return models.PermissionUnasked, err
	}
	resolved := reminder.Resolve(settings.NotificationPermission, permissionPrompter(ctx), alerter)
	if resolved != settings.NotificationPermission {
		if err := ctx.Store.SavePermission(resolved); err != nil {
			return resolved, err
		}
		logger.Info("Notification permission changed", "from", settings.NotificationPermission, "to", resolved)
	}
	return resolved, nil
}
