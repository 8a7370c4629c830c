package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/metrics"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/logger"
)

// systemActor is the audit identity stamped on transitions applied by the
// engine.
const systemActor = "lifecycle-engine"

// TickFunc is one scan-mutate-notify cycle of a lifecycle service.
type TickFunc func(ctx context.Context) error

// Runner drives a lifecycle service: it executes one tick, sleeps until the
// next schedule boundary, and repeats until the context is cancelled.
//
// The delay is always computed from the schedule and the current wall clock,
// so the wake time stays pinned to the boundary regardless of how long the
// previous tick took.
type Runner struct {
	name     string
	schedule cron.Schedule
	tick     TickFunc
	log      *logger.Logger
}

// NewRunner creates a runner for the given cron schedule (standard 5-field
// syntax, local time).
func NewRunner(name, scheduleSpec string, tick TickFunc, log *logger.Logger) (*Runner, error) {
	schedule, err := cron.ParseStandard(scheduleSpec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q for %s: %w", scheduleSpec, name, err)
	}

	return &Runner{
		name:     name,
		schedule: schedule,
		tick:     tick,
		log:      log,
	}, nil
}

// Run executes the tick loop until ctx is cancelled. Tick failures are
// contained: an error or panic inside one tick is logged and the next tick
// is still scheduled.
func (r *Runner) Run(ctx context.Context) {
	r.log.Info("Lifecycle runner started", "runner", r.name)

	for {
		if ctx.Err() != nil {
			break
		}

		r.runTick(ctx)

		next := r.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			r.log.Info("Lifecycle runner stopped", "runner", r.name)
			return
		case <-timer.C:
		}
	}

	r.log.Info("Lifecycle runner stopped", "runner", r.name)
}

// runTick executes one tick with panic recovery and metrics
func (r *Runner) runTick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.TickPanics.WithLabelValues(r.name).Inc()
			r.log.Error("Recovered panic in lifecycle tick", "runner", r.name, "panic", rec)
		}
	}()

	start := time.Now()
	metrics.TicksTotal.WithLabelValues(r.name).Inc()

	if err := r.tick(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			r.log.Info("Lifecycle tick interrupted by shutdown", "runner", r.name)
		} else {
			metrics.TickFailures.WithLabelValues(r.name).Inc()
			r.log.Error("Lifecycle tick failed", "runner", r.name, "error", err)
		}
	}

	metrics.TickDuration.WithLabelValues(r.name).Observe(time.Since(start).Seconds())
}
