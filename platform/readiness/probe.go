// Package readiness waits for a dependency to accept a trivial liveness
// command before the caller starts using it.
//
// The policy is a fixed interval with a bounded attempt count, which is what
// container start-up races need: the database (or storage API) is either up
// within the budget or the caller gives up and reports it as unavailable.
package readiness

import (
	"context"
	"time"

	"creaturedex/platform/apperr"
	"creaturedex/platform/config"
	"creaturedex/platform/logger"
)

// CheckFunc issues one liveness command. Any error means "not ready yet".
type CheckFunc func(ctx context.Context) error

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Probe polls a dependency with a fixed interval.
type Probe struct {
	Name        string
	MaxAttempts int
	Interval    time.Duration
	Sleep       SleepFunc
	Log         *logger.Logger
}

// New creates a probe from the readiness budget in cfg.
func New(name string, cfg config.ReadinessConfig, log *logger.Logger) *Probe {
	return &Probe{
		Name:        name,
		MaxAttempts: cfg.GetReadinessMaxAttempts(),
		Interval:    cfg.GetReadinessInterval(),
		Log:         log,
	}
}

// WaitUntilReady runs check until it succeeds or MaxAttempts checks have
// failed. Every failed attempt is followed by one Interval sleep, so an
// unreachable dependency costs MaxAttempts*Interval in total.
//
// Returns an apperr of kind KindUnavailable wrapping the last failure, or
// the context error if ctx ends first.
func (p *Probe) WaitUntilReady(ctx context.Context, check CheckFunc) error {
	if p.MaxAttempts < 1 {
		return apperr.Validation("readiness: max attempts must be at least 1").WithOp(p.Name)
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := check(ctx)
		if err == nil {
			if p.Log != nil {
				p.Log.Info("dependency ready", "dependency", p.Name, "attempt", attempt)
			}
			return nil
		}
		lastErr = err

		if p.Log != nil {
			p.Log.Warn("waiting for dependency",
				"dependency", p.Name,
				"attempt", attempt,
				"max_attempts", p.MaxAttempts,
				"error", err,
			)
		}

		if err := sleep(ctx, p.Interval); err != nil {
			return err
		}
	}

	return apperr.Unavailable(p.Name+" did not become ready", lastErr).WithOp("readiness")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
