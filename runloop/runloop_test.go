package runloop

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

type manualClock struct {
	current time.Time
}

func (c *manualClock) now() time.Time {
	return c.current
}

func (c *manualClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestLoop(t *testing.T, interval time.Duration) (*RunLoop, *manualClock) {
	t.Helper()
	r, err := New(interval)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	clock := &manualClock{current: time.Unix(0, 0)}
	r.now = clock.now
	r.Reset()
	return r, clock
}

func TestNew_InvalidInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Millisecond} {
		if _, err := New(interval); !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("New(%v) error = %v", interval, err)
		}
	}
}

func TestRun_UpdateCount(t *testing.T) {
	tests := []struct {
		name        string
		elapsed     time.Duration
		wantUpdates int
		wantT       float64
	}{
		{"nothing due", 10 * time.Millisecond, 0, 1.0 / 3},
		{"exactly one", 30 * time.Millisecond, 1, 0},
		{"several", 100 * time.Millisecond, 3, 1.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, clock := newTestLoop(t, 30*time.Millisecond)

			updates := 0
			var render RenderContext
			renders := 0
			r.OnUpdate(func(uc UpdateContext) {
				if uc.Interval != 30*time.Millisecond {
					t.Errorf("Interval = %v", uc.Interval)
				}
				updates++
			})
			r.OnRender(func(rc RenderContext) {
				render = rc
				renders++
			})

			clock.advance(tt.elapsed)
			if got := r.Run(); got != tt.wantUpdates {
				t.Errorf("Run() = %d, want %d", got, tt.wantUpdates)
			}
			if updates != tt.wantUpdates {
				t.Errorf("update handler called %d times, want %d", updates, tt.wantUpdates)
			}
			if renders != 1 {
				t.Errorf("render handler called %d times, want 1", renders)
			}
			if math.Abs(render.T-tt.wantT) > 1e-9 {
				t.Errorf("T = %v, want %v", render.T, tt.wantT)
			}
			if render.T < 0 || render.T >= 1 {
				t.Errorf("T = %v out of [0, 1)", render.T)
			}
		})
	}
}

func TestRun_CarriesRemainder(t *testing.T) {
	r, clock := newTestLoop(t, 30*time.Millisecond)

	total := 0
	for i := 0; i < 10; i++ {
		clock.advance(20 * time.Millisecond)
		total += r.Run()
	}

	// 200ms of 30ms updates
	if total != 6 {
		t.Errorf("ran %d updates, want 6", total)
	}
}

func TestRun_MaxUpdates(t *testing.T) {
	r, clock := newTestLoop(t, 10*time.Millisecond)
	r.MaxUpdates = 2

	var render RenderContext
	r.OnRender(func(rc RenderContext) { render = rc })

	clock.advance(55 * time.Millisecond)
	if got := r.Run(); got != 2 {
		t.Errorf("Run() = %d, want 2", got)
	}
	if render.Elapsed != 5*time.Millisecond {
		t.Errorf("Elapsed = %v, want the backlog dropped down to 5ms", render.Elapsed)
	}
}

func TestReset_SkipsPausedTime(t *testing.T) {
	r, clock := newTestLoop(t, 10*time.Millisecond)

	clock.advance(time.Second)
	r.Reset()
	clock.advance(10 * time.Millisecond)

	if got := r.Run(); got != 1 {
		t.Errorf("Run() = %d after Reset, want 1", got)
	}
}

func TestStart_StopsWithContext(t *testing.T) {
	r, err := New(time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Start(ctx, time.Millisecond); !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}
	if err := r.Start(context.Background(), 0); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("Start(0) error = %v", err)
	}
}
