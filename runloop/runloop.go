// Package runloop schedules fixed-interval updates and interpolated renders.
//
// Each Run performs every update that is due, then one render whose T is the fraction of an
// update interval left over, ready to interpolate between the last two simulation samples.
package runloop

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidInterval = errors.New("runloop: update interval must be positive")

type UpdateContext struct {
	Interval time.Duration
}

type RenderContext struct {
	// time accumulated since the last update
	Elapsed time.Duration
	// Elapsed normalized by the update interval, in [0, 1)
	T float64
}

type RunLoop struct {
	// MaxUpdates bounds the updates of a single Run, 0 means unbounded.
	// Time left over beyond the bound is dropped.
	MaxUpdates int

	interval time.Duration
	elapsed  time.Duration
	lastRun  time.Time

	updates []func(UpdateContext)
	renders []func(RenderContext)

	now func() time.Time
}

func New(interval time.Duration) (*RunLoop, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &RunLoop{
		interval: interval,
		lastRun:  time.Now(),
		now:      time.Now,
	}, nil
}

func (r *RunLoop) Interval() time.Duration {
	return r.interval
}

// OnUpdate registers fn to be called on every fixed update
func (r *RunLoop) OnUpdate(fn func(UpdateContext)) {
	r.updates = append(r.updates, fn)
}

// OnRender registers fn to be called once per Run
func (r *RunLoop) OnRender(fn func(RenderContext)) {
	r.renders = append(r.renders, fn)
}

// Reset restarts the clock, so the time spent paused is not caught up
func (r *RunLoop) Reset() {
	r.lastRun = r.now()
}

// Run executes the updates due since the previous Run, then renders. It returns the number of updates.
func (r *RunLoop) Run() int {
	current := r.now()
	r.elapsed += current.Sub(r.lastRun)
	r.lastRun = current

	updates := 0
	for r.elapsed >= r.interval {
		if r.MaxUpdates > 0 && updates >= r.MaxUpdates {
			r.elapsed %= r.interval
			break
		}
		for _, fn := range r.updates {
			fn(UpdateContext{Interval: r.interval})
		}
		r.elapsed -= r.interval
		updates++
	}

	rc := RenderContext{
		Elapsed: r.elapsed,
		T:       float64(r.elapsed) / float64(r.interval),
	}
	for _, fn := range r.renders {
		fn(rc)
	}

	return updates
}

// Start calls Run every period until ctx is done
func (r *RunLoop) Start(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		return ErrInvalidInterval
	}

	r.Reset()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Run()
		}
	}
}
