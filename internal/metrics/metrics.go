// Package metrics summarises pattern frames over a run: how bright, how much
// is visible, how far the phase moved.
package metrics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/pulsegrid/internal/pattern"
)

var ErrUnknownMetric = errors.New("metrics: unknown metric")

// Metric accumulates over observed frames. Last is the value of the most
// recent frame, Value the run aggregate.
type Metric interface {
	Name() string
	Observe(f pattern.Frame)
	Last() float64
	Value() float64
	Reset()
}

var factories = map[string]func() Metric{
	"mean_opacity":     func() Metric { return NewMeanOpacity() },
	"visible_fraction": func() Metric { return NewVisibleFraction(VisibleThreshold) },
	"phase":            func() Metric { return NewPhase() },
	"in_bounds":        func() Metric { return NewInBounds() },
	"mean_radius":      func() Metric { return NewMeanRadius() },
	"flicker":          func() Metric { return NewFlicker() },
}

func New(name string) (Metric, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}
	return f(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Recorder fans frames out to a set of metrics. It satisfies the engine's
// frame observer.
type Recorder struct {
	metrics []Metric
	frames  int
}

func NewRecorder(ms ...Metric) *Recorder {
	return &Recorder{metrics: ms}
}

func (r *Recorder) OnFrame(f pattern.Frame, _ bool) {
	r.frames++
	for _, m := range r.metrics {
		m.Observe(f)
	}
}

func (r *Recorder) Frames() int       { return r.frames }
func (r *Recorder) Metrics() []Metric { return r.metrics }

// Last returns the latest per-frame value of every metric, in order.
func (r *Recorder) Last() []float64 {
	out := make([]float64, len(r.metrics))
	for i, m := range r.metrics {
		out[i] = m.Last()
	}
	return out
}

func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	r.frames = 0
	for _, m := range r.metrics {
		m.Reset()
	}
}

// alphas lists the clamped opacity of every primitive in draw order.
func alphas(f pattern.Frame) []float64 {
	out := make([]float64, 0, f.Len())
	for _, l := range f.Lines {
		out = append(out, l.Alpha())
	}
	for _, c := range f.Circles {
		out = append(out, c.Alpha())
	}
	for _, p := range f.Polylines {
		out = append(out, p.Alpha())
	}
	return out
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// running is the shared mean-of-per-frame-values accumulator.
type running struct {
	last    float64
	total   float64
	samples int
}

func (r *running) add(v float64) {
	r.last = v
	r.total += v
	r.samples++
}

func (r *running) Last() float64 { return r.last }

func (r *running) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.total / float64(r.samples)
}

func (r *running) Reset() { *r = running{} }
