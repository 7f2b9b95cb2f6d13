package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/watcher"
)

type RemindCmd struct {
	SinkFlags `embed:""`

	Once        bool          `help:"Run a single check and exit."`
	DryRun      bool          `help:"Print due reminders to stdout instead of sending them."`
	MetricsAddr string        `help:"Serve Prometheus metrics on this address, e.g. :9464." env:"HABITUAL_METRICS_ADDR"`
	NoWatch     bool          `help:"Do not reload the data file when other processes change it."`
	Period      time.Duration `hidden:"" default:"60s" help:"Check period."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(runCtx, ctx)
}

func (c *RemindCmd) run(runCtx context.Context, ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.NotificationPermission != models.PermissionGranted {
		logger.Warn("Reminders will not be delivered until notifications are granted", "permission", settings.NotificationPermission)
		ctx.Printf("Notification permission is %s; reminders will be skipped. Run 'habitual notify permission --prompt'.\n", settings.NotificationPermission)
	}

	var sink notifier.Notifier = notifier.NewWriter(ctx.Writer())
	closeSinks := func() {}
	if !c.DryRun {
		sink, closeSinks, err = c.build(ctx)
		if err != nil {
			return err
		}
	}
	defer closeSinks()

	recorder := metrics.NewRecorder(nil)
	source := newStoreSource(ctx.Store)
	opts := []reminder.Option{reminder.WithRecorder(recorder), reminder.WithPeriod(c.Period)}
	if ctx.Now != nil {
		opts = append(opts, reminder.WithClockwork(clockwork.NewFakeClockAt(ctx.Now())))
	}
	clock := reminder.NewClock(source, sink, opts...)

	if c.Once {
		res, err := clock.Tick(runCtx)
		if err != nil {
			return err
		}
		if !res.Fired {
			ctx.Printf("No reminders due at %s (reminder time %s).\n", res.At.Format(constants.TimeFormat), settings.ReminderTime)
			return nil
		}
		ctx.Printf("Sent %d reminder(s), %d failed.\n", res.Sent, res.Failed)
		return nil
	}

	var wg sync.WaitGroup
	if c.MetricsAddr != "" {
		recorder.WithRuntimeCollectors()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := recorder.Serve(runCtx, c.MetricsAddr); err != nil {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}
	if !c.NoWatch {
		if _, isPostgres := ctx.Store.Backend().(*postgres.Store); !isPostgres {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := watcher.Watch(runCtx, ctx.Store.Path(), source.Invalidate); err != nil {
					logger.Warn("File watcher stopped", "error", err)
				}
			}()
		}
	}

	if err := clock.Start(runCtx); err != nil {
		return err
	}
	ctx.Printf("Reminder clock running (reminder time %s). Press Ctrl+C to stop.\n", settings.ReminderTime)

	<-runCtx.Done()
	err = clock.Stop()
	wg.Wait()
	return err
}

// storeSource feeds the reminder clock from storage. After Invalidate the
// next read reloads backends that cache the data file.
type storeSource struct {
	store *storage.Store

	mu    sync.Mutex
	stale bool
}

func newStoreSource(s *storage.Store) *storeSource {
	return &storeSource{store: s}
}

func (s *storeSource) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

func (s *storeSource) refresh() error {
	if !s.stale {
		return nil
	}
	if r, ok := s.store.Backend().(storage.Reloader); ok {
		if err := r.Reload(); err != nil {
			return fmt.Errorf("failed to reload data file: %w", err)
		}
		logger.Debug("Reloaded data file", "path", s.store.Path())
	}
	s.stale = false
	return nil
}

func (s *storeSource) Habits() ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return nil, err
	}
	return s.store.GetHabits()
}

func (s *storeSource) Settings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return models.Settings{}, err
	}
	return s.store.GetSettings()
}
