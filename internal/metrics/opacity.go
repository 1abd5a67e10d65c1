package metrics

import (
	"math"

	"github.com/san-kum/pulsegrid/internal/pattern"
)

// VisibleThreshold is the alpha below which a primitive counts as invisible.
const VisibleThreshold = 0.05

type MeanOpacity struct {
	running
}

func NewMeanOpacity() *MeanOpacity { return &MeanOpacity{} }

func (m *MeanOpacity) Name() string { return "mean_opacity" }

func (m *MeanOpacity) Observe(f pattern.Frame) { m.add(mean(alphas(f))) }

type VisibleFraction struct {
	running
	threshold float64
}

func NewVisibleFraction(threshold float64) *VisibleFraction {
	return &VisibleFraction{threshold: threshold}
}

func (v *VisibleFraction) Name() string { return "visible_fraction" }

func (v *VisibleFraction) Observe(f pattern.Frame) {
	as := alphas(f)
	if len(as) == 0 {
		v.add(0)
		return
	}
	visible := 0
	for _, a := range as {
		if a >= v.threshold {
			visible++
		}
	}
	v.add(float64(visible) / float64(len(as)))
}

// Flicker is the mean absolute change of frame mean opacity between
// consecutive frames.
type Flicker struct {
	prev    float64
	last    float64
	total   float64
	samples int
	seen    bool
}

func NewFlicker() *Flicker { return &Flicker{} }

func (fl *Flicker) Name() string { return "flicker" }

func (fl *Flicker) Observe(f pattern.Frame) {
	cur := mean(alphas(f))
	if fl.seen {
		fl.last = math.Abs(cur - fl.prev)
		fl.total += fl.last
		fl.samples++
	}
	fl.prev = cur
	fl.seen = true
}

func (fl *Flicker) Last() float64 { return fl.last }

func (fl *Flicker) Value() float64 {
	if fl.samples == 0 {
		return 0
	}
	return fl.total / float64(fl.samples)
}

func (fl *Flicker) Reset() { *fl = Flicker{} }
