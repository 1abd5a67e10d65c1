package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/pulsegrid/internal/clock"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

// Observer is notified with every committed frame.
type Observer interface {
	OnFrame(f pattern.Frame, advanced bool)
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithSeed(seed int64) Option {
	return func(e *Engine) { e.src = pattern.NewSource(seed) }
}

func WithRegistry(r *pattern.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithRunning sets the initial global running flag.
func WithRunning(running bool) Option {
	return func(e *Engine) { e.running = running }
}

type Engine struct {
	size     pattern.Size
	registry *pattern.Registry
	logger   *zap.Logger

	mu        sync.Mutex
	src       *rand.Rand
	running   bool
	closed    bool
	instances map[pattern.Mode]*Instance
	observers []Observer
}

func New(size pattern.Size, opts ...Option) (*Engine, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		size:      size,
		registry:  pattern.NewRegistry(),
		logger:    zap.NewNop(),
		src:       pattern.NewSource(1),
		running:   true,
		instances: make(map[pattern.Mode]*Instance),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Size() pattern.Size { return e.size }

func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	e.observers = append(e.observers, o)
	e.mu.Unlock()
}

// Activate allocates the generator and pools for m. Activating a mode that
// is already live returns the existing instance untouched.
func (e *Engine) Activate(m pattern.Mode) (*Instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if inst, ok := e.instances[m]; ok {
		return inst, nil
	}

	gen, err := e.registry.New(m, e.size, e.src)
	if err != nil {
		return nil, fmt.Errorf("activate %s: %w", m, err)
	}
	clk, err := clock.New(m.TickInterval())
	if err != nil {
		return nil, fmt.Errorf("activate %s: %w", m, err)
	}
	clk.SetRunning(e.running)

	inst := &Instance{gen: gen, clock: clk}
	inst.latest = gen.Frame(pattern.NewDrive(pattern.DefaultParams(), pattern.DefaultIntensity))
	e.instances[m] = inst

	e.logger.Info("pattern activated",
		zap.String("mode", m.Slug()),
		zap.Duration("interval", clk.Interval()),
		zap.Int("primitives", inst.latest.Len()))
	return inst, nil
}

// Deactivate releases the pools of m and invalidates its clock. Deactivating
// an inactive mode is a no-op.
func (e *Engine) Deactivate(m pattern.Mode) {
	e.mu.Lock()
	inst, ok := e.instances[m]
	delete(e.instances, m)
	e.mu.Unlock()

	if !ok {
		return
	}
	inst.clock.Stop()
	e.logger.Info("pattern deactivated",
		zap.String("mode", m.Slug()),
		zap.Uint64("ticks", inst.clock.Ticks()),
		zap.Uint64("advanced", inst.clock.Advanced()))
}

// Close deactivates every mode. The engine cannot be reused.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	modes := e.activeLocked()
	e.mu.Unlock()

	for _, m := range modes {
		e.Deactivate(m)
	}
}

func (e *Engine) Active() []pattern.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeLocked()
}

func (e *Engine) activeLocked() []pattern.Mode {
	modes := make([]pattern.Mode, 0, len(e.instances))
	for m := range e.instances {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

func (e *Engine) IsActive(m pattern.Mode) bool {
	_, err := e.instance(m)
	return err == nil
}

func (e *Engine) instance(m pattern.Mode) (*Instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instances[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInactive, m)
	}
	return inst, nil
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// SetRunning sets the global running flag on every live clock.
func (e *Engine) SetRunning(running bool) {
	e.mu.Lock()
	changed := e.running != running
	e.running = running
	for _, inst := range e.instances {
		inst.clock.SetRunning(running)
	}
	e.mu.Unlock()

	if changed {
		e.logger.Info("running state changed", zap.Bool("running", running))
	}
}

// Toggle flips the global running flag and returns the new value.
func (e *Engine) Toggle() bool {
	running := !e.Running()
	e.SetRunning(running)
	return running
}

// Tick counts one clock tick for m. If the clock is running the generator
// advances under d; the committed frame is returned either way.
func (e *Engine) Tick(m pattern.Mode, d pattern.Drive) (pattern.Frame, error) {
	inst, err := e.instance(m)
	if err != nil {
		return pattern.Frame{}, err
	}
	return e.step(m, inst, inst.clock.Tick(), d), nil
}

// Snapshot renders the current state of m under d without advancing it.
func (e *Engine) Snapshot(m pattern.Mode, d pattern.Drive) (pattern.Frame, error) {
	inst, err := e.instance(m)
	if err != nil {
		return pattern.Frame{}, err
	}
	inst.stepMu.Lock()
	defer inst.stepMu.Unlock()
	return inst.gen.Frame(d), nil
}

// Latest returns the last frame committed by a tick of m.
func (e *Engine) Latest(m pattern.Mode) (pattern.Frame, error) {
	inst, err := e.instance(m)
	if err != nil {
		return pattern.Frame{}, err
	}
	return inst.Latest(), nil
}

// Run drives m from its own clock until ctx is done or m is deactivated.
// source is read once per tick; sink, when non-nil, receives every committed
// frame on the calling goroutine.
func (e *Engine) Run(ctx context.Context, m pattern.Mode, source func() pattern.Drive, sink func(pattern.Frame)) error {
	inst, err := e.instance(m)
	if err != nil {
		return err
	}

	err = inst.clock.Run(ctx, func(advance bool) {
		f := e.step(m, inst, advance, source())
		if sink != nil {
			sink(f)
		}
	})
	if errors.Is(err, clock.ErrStopped) {
		return nil
	}
	return err
}

func (e *Engine) step(m pattern.Mode, inst *Instance, advance bool, d pattern.Drive) pattern.Frame {
	inst.stepMu.Lock()
	if advance {
		inst.gen.Advance(d)
	}
	f := inst.gen.Frame(d)
	inst.publish(f)
	skipped := 0
	if s, ok := inst.gen.(pattern.Skipper); ok {
		skipped = s.Skipped()
	}
	inst.stepMu.Unlock()

	if skipped > 0 {
		e.logger.Debug("connections skipped",
			zap.String("mode", m.Slug()),
			zap.Int("skipped", skipped))
	}

	e.mu.Lock()
	observers := e.observers
	e.mu.Unlock()
	for _, o := range observers {
		o.OnFrame(f, advance)
	}
	return f
}

// Instance is one live pattern: its generator, pools and clock.
type Instance struct {
	gen   pattern.Generator
	clock *clock.Clock

	stepMu sync.Mutex

	mu     sync.RWMutex
	latest pattern.Frame
}

func (i *Instance) Mode() pattern.Mode           { return i.gen.Mode() }
func (i *Instance) Clock() *clock.Clock          { return i.clock }
func (i *Instance) Generator() pattern.Generator { return i.gen }

func (i *Instance) Latest() pattern.Frame {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.latest
}

func (i *Instance) publish(f pattern.Frame) {
	i.mu.Lock()
	i.latest = f
	i.mu.Unlock()
}
