// Package clock implements the frame clock that gates phase advancement.
//
// A clock keeps ticking at its fixed rate in both states. While paused the
// ticks are counted but report that nothing may advance, so resuming carries
// on from the frozen phase instead of catching up.
package clock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrStopped     = errors.New("clock: stopped")
	ErrBadInterval = errors.New("clock: interval must be positive")
)

type State int

const (
	Running State = iota
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Paused:
		return "PAUSED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Clock is a two-state RUNNING/PAUSED machine with tick counters.
type Clock struct {
	mu       sync.Mutex
	interval time.Duration
	state    State
	ticks    uint64
	advanced uint64
	stopped  bool
}

func New(interval time.Duration) (*Clock, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadInterval, interval)
	}
	return &Clock{interval: interval}, nil
}

func (c *Clock) Interval() time.Duration { return c.interval }

func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Clock) Running() bool { return c.State() == Running }

// Toggle flips the state and returns the new one.
func (c *Clock) Toggle() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Running {
		c.state = Paused
	} else {
		c.state = Running
	}
	return c.state
}

func (c *Clock) Pause()  { c.set(Paused) }
func (c *Clock) Resume() { c.set(Running) }

// SetRunning is the boolean form of Pause/Resume.
func (c *Clock) SetRunning(running bool) {
	if running {
		c.Resume()
	} else {
		c.Pause()
	}
}

func (c *Clock) set(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Tick records one wall-clock tick and reports whether phases may advance.
// A stopped clock never advances.
func (c *Clock) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false
	}
	c.ticks++
	if c.state != Running {
		return false
	}
	c.advanced++
	return true
}

// Ticks is the number of wall ticks seen; Advanced counts those that ran.
func (c *Clock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

func (c *Clock) Advanced() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanced
}

// Stop invalidates the clock. Run loops return ErrStopped on their next tick.
func (c *Clock) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
}

func (c *Clock) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// Run calls fn on every tick of a time.Ticker at the clock interval, on the
// calling goroutine, until ctx is done or the clock is stopped. fn receives
// whether the tick may advance state; paused ticks still call fn so the
// caller can redraw.
func (c *Clock) Run(ctx context.Context, fn func(advance bool)) error {
	t := time.NewTicker(c.interval)
	defer t.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if c.Stopped() {
				return ErrStopped
			}
			fn(c.Tick())
		}
	}
}
