package clock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRejectsBadInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Millisecond} {
		if _, err := New(d); !errors.Is(err, ErrBadInterval) {
			t.Errorf("New(%v): expected ErrBadInterval, got %v", d, err)
		}
	}
}

func TestToggle(t *testing.T) {
	c, _ := New(50 * time.Millisecond)
	if c.State() != Running {
		t.Fatalf("new clock should be running, got %v", c.State())
	}
	if s := c.Toggle(); s != Paused {
		t.Errorf("Toggle() = %v, want PAUSED", s)
	}
	if s := c.Toggle(); s != Running {
		t.Errorf("Toggle() = %v, want RUNNING", s)
	}
	c.SetRunning(false)
	if c.Running() {
		t.Error("SetRunning(false) left clock running")
	}
}

func TestPausedTicksAreCountedButDoNotAdvance(t *testing.T) {
	c, _ := New(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		if !c.Tick() {
			t.Fatal("running tick should advance")
		}
	}
	c.Pause()
	for i := 0; i < 7; i++ {
		if c.Tick() {
			t.Fatal("paused tick should not advance")
		}
	}
	c.Resume()
	for i := 0; i < 3; i++ {
		c.Tick()
	}

	if c.Ticks() != 15 {
		t.Errorf("Ticks() = %d, want 15", c.Ticks())
	}
	if c.Advanced() != 8 {
		t.Errorf("Advanced() = %d, want 8", c.Advanced())
	}
}

func TestStoppedClockNeverAdvances(t *testing.T) {
	c, _ := New(time.Millisecond)
	c.Stop()
	if c.Tick() {
		t.Error("stopped clock advanced")
	}
	if c.Ticks() != 0 {
		t.Errorf("stopped clock counted %d ticks", c.Ticks())
	}
	if err := c.Run(context.Background(), func(bool) {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Run on stopped clock: expected ErrStopped, got %v", err)
	}
}

func TestRunStopsOnContext(t *testing.T) {
	c, _ := New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := c.Run(ctx, func(advance bool) {
		calls++
		if calls == 3 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRunReportsPause(t *testing.T) {
	c, _ := New(time.Millisecond)
	c.Pause()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []bool
	_ = c.Run(ctx, func(advance bool) {
		seen = append(seen, advance)
		if len(seen) == 2 {
			c.Resume()
		}
		if len(seen) == 4 {
			cancel()
		}
	})

	want := []bool{false, false, true, true}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("tick %d advance = %v, want %v", i, seen[i], want[i])
		}
	}
}
