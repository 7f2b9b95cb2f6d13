// Package metrics exposes reminder daemon counters in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

// Recorder implements reminder.Recorder using Prometheus metrics.
type Recorder struct {
	registry *prom.Registry

	ticks    prom.Counter
	sent     prom.Counter
	failures prom.Counter
	habits   prom.Gauge
}

// NewRecorder constructs the reminder metrics and registers them on reg,
// or on a fresh registry when reg is nil.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		registry: reg,
		ticks: prom.NewCounter(prom.CounterOpts{
			Namespace: constants.AppName,
			Name:      "reminder_ticks_total",
			Help:      "Reminder checks performed",
		}),
		sent: prom.NewCounter(prom.CounterOpts{
			Namespace: constants.AppName,
			Name:      "reminders_sent_total",
			Help:      "Reminders delivered to a notifier",
		}),
		failures: prom.NewCounter(prom.CounterOpts{
			Namespace: constants.AppName,
			Name:      "reminder_failures_total",
			Help:      "Reminders that every notifier failed to deliver",
		}),
		habits: prom.NewGauge(prom.GaugeOpts{
			Namespace: constants.AppName,
			Name:      "habits",
			Help:      "Habits tracked at the last reminder check",
		}),
	}
	reg.MustRegister(r.ticks, r.sent, r.failures, r.habits)
	return r
}

// WithRuntimeCollectors adds the Go and process collectors.
func (r *Recorder) WithRuntimeCollectors() *Recorder {
	r.registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return r
}

func (r *Recorder) TickObserved()       { r.ticks.Inc() }
func (r *Recorder) ReminderSent()       { r.sent.Inc() }
func (r *Recorder) ReminderFailed()     { r.failures.Inc() }
func (r *Recorder) HabitsTracked(n int) { r.habits.Set(float64(n)) }

// Handler serves the registry for scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
