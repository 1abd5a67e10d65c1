package pattern

import (
	"fmt"
	"math/rand"
)

// Generator computes the frames of one pattern instance. Advance mutates the
// phase accumulator and any entity pool; Frame never advances them.
type Generator interface {
	Mode() Mode
	Phase() float64
	Advance(d Drive)
	Frame(d Drive) Frame
}

// Skipper is implemented by generators that leave out primitives whose
// references no longer resolve.
type Skipper interface {
	Skipped() int
}

// Source is the random source pools are seeded from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// uniform draws from [lo, hi].
func uniform(src Source, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + src.Float64()*(hi-lo)
}

// Factory builds a generator for a canvas size.
type Factory func(size Size, src Source) Generator

type Registry struct {
	factories map[Mode]Factory
}

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[Mode]Factory)}

	r.factories[SignalMesh] = func(size Size, _ Source) Generator { return NewSignalMesh(size) }
	r.factories[MagneticField] = func(size Size, src Source) Generator { return NewMagneticField(size, src) }
	r.factories[HeatPulse] = func(size Size, _ Source) Generator { return NewHeatPulse(size) }
	r.factories[StressWave] = func(size Size, _ Source) Generator { return NewStressWave(size) }
	r.factories[NeuroSpark] = func(size Size, src Source) Generator { return NewNeuroSpark(size, src) }

	return r
}

// Register replaces the factory for a mode.
func (r *Registry) Register(m Mode, f Factory) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	r.factories[m] = f
	return nil
}

func (r *Registry) New(m Mode, size Size, src Source) (Generator, error) {
	fn, ok := r.factories[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, m)
	}
	if err := size.Validate(); err != nil {
		return nil, err
	}
	return fn(size, src), nil
}

// phaser is the shared accumulator of the purely phase-driven modes.
type phaser struct {
	mode  Mode
	size  Size
	phase float64
}

func (p *phaser) Mode() Mode     { return p.mode }
func (p *phaser) Phase() float64 { return p.phase }

func (p *phaser) Advance(d Drive) {
	p.phase += p.mode.PhaseStep() * d.Rate()
}
