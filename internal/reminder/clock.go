package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
)

// Source supplies the current habit list and settings on every tick.
type Source interface {
	Habits() ([]models.Habit, error)
	Settings() (models.Settings, error)
}

// Recorder observes tick outcomes. Implemented by the metrics package.
type Recorder interface {
	TickObserved()
	ReminderSent()
	ReminderFailed()
	HabitsTracked(n int)
}

type nopRecorder struct{}

func (nopRecorder) TickObserved()     {}
func (nopRecorder) ReminderSent()     {}
func (nopRecorder) ReminderFailed()   {}
func (nopRecorder) HabitsTracked(int) {}

// Result summarizes one tick.
type Result struct {
	At       time.Time
	Fired    bool
	Sent     int
	Failed   int
	Messages []string
}

// Clock periodically checks whether reminders are due and sends them.
type Clock struct {
	source   Source
	notifier notifier.Notifier
	clock    clockwork.Clock
	period   time.Duration
	recorder Recorder

	mu        sync.Mutex
	scheduler gocron.Scheduler
	cancel    context.CancelFunc
	lastFired string
}

type Option func(*Clock)

// WithClockwork injects the clock used for both scheduling and wall time.
func WithClockwork(c clockwork.Clock) Option {
	return func(rc *Clock) { rc.clock = c }
}

// WithPeriod overrides the 60-second check period.
func WithPeriod(d time.Duration) Option {
	return func(rc *Clock) {
		if d > 0 {
			rc.period = d
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(rc *Clock) {
		if r != nil {
			rc.recorder = r
		}
	}
}

func NewClock(source Source, n notifier.Notifier, opts ...Option) *Clock {
	c := &Clock{
		source:   source,
		notifier: n,
		clock:    clockwork.NewRealClock(),
		period:   constants.ReminderPeriod,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start schedules the periodic check. Ticks never overlap.
func (c *Clock) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scheduler != nil {
		return errors.New("reminder clock already started")
	}

	s, err := gocron.NewScheduler(gocron.WithClock(c.clock))
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	tickCtx, cancel := context.WithCancel(ctx)
	_, err = s.NewJob(
		gocron.DurationJob(c.period),
		gocron.NewTask(func() {
			if _, err := c.Tick(tickCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Reminder tick failed", "error", err)
			}
		}),
		gocron.WithName("reminder-tick"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		_ = s.Shutdown()
		return fmt.Errorf("failed to schedule reminder check: %w", err)
	}

	c.scheduler = s
	c.cancel = cancel
	logger.Info("Starting reminder clock", "period", c.period)
	s.Start()
	return nil
}

// Stop cancels any in-flight tick and shuts the scheduler down.
func (c *Clock) Stop() error {
	c.mu.Lock()
	s, cancel := c.scheduler, c.cancel
	c.scheduler, c.cancel = nil, nil
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	logger.Info("Stopping reminder clock")
	cancel()
	return s.Shutdown()
}

// Tick runs one check. Reminders are delivered only when permission is
// granted, and at most once per wall-clock minute. Send failures are logged
// and counted; they never abort the tick.
func (c *Clock) Tick(ctx context.Context) (Result, error) {
	c.recorder.TickObserved()

	settings, err := c.source.Settings()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read settings: %w", err)
	}
	loc, err := settings.Location()
	if err != nil {
		return Result{}, err
	}
	habits, err := c.source.Habits()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read habits: %w", err)
	}
	c.recorder.HabitsTracked(len(habits))

	now := c.clock.Now().In(loc)
	res := Result{At: now}

	messages := Due(now, settings.ReminderTime, habits)
	if len(messages) == 0 {
		return res, nil
	}
	if settings.NotificationPermission != models.PermissionGranted {
		logger.Debug("Reminders due but notifications not granted", "permission", settings.NotificationPermission)
		return res, nil
	}

	minute := now.Format(constants.DateFormat + " " + constants.TimeFormat)
	c.mu.Lock()
	if c.lastFired == minute {
		c.mu.Unlock()
		return res, nil
	}
	c.lastFired = minute
	c.mu.Unlock()

	res.Fired = true
	res.Messages = messages
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := c.notifier.Notify(msg); err != nil {
			res.Failed++
			c.recorder.ReminderFailed()
			logger.Warn("Failed to send reminder", "error", err)
			continue
		}
		res.Sent++
		c.recorder.ReminderSent()
	}
	logger.Info("Reminders sent", "sent", res.Sent, "failed", res.Failed)
	return res, nil
}
