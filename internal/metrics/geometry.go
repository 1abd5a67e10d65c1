package metrics

import "github.com/san-kum/pulsegrid/internal/pattern"

// Phase tracks the frame phase. Value is the distance travelled since the
// first observed frame.
type Phase struct {
	first float64
	last  float64
	seen  bool
}

func NewPhase() *Phase { return &Phase{} }

func (p *Phase) Name() string { return "phase" }

func (p *Phase) Observe(f pattern.Frame) {
	if !p.seen {
		p.first = f.Phase
		p.seen = true
	}
	p.last = f.Phase
}

func (p *Phase) Last() float64  { return p.last }
func (p *Phase) Value() float64 { return p.last - p.first }
func (p *Phase) Reset()         { *p = Phase{} }

// InBounds is the fraction of circle centres inside the canvas. Frames
// without circles count as fully in bounds.
type InBounds struct {
	running
}

func NewInBounds() *InBounds { return &InBounds{} }

func (b *InBounds) Name() string { return "in_bounds" }

func (b *InBounds) Observe(f pattern.Frame) {
	if len(f.Circles) == 0 {
		b.add(1)
		return
	}
	in := 0
	for _, c := range f.Circles {
		if c.Center.X >= 0 && c.Center.X < f.Size.Width && c.Center.Y >= 0 && c.Center.Y < f.Size.Height {
			in++
		}
	}
	b.add(float64(in) / float64(len(f.Circles)))
}

type MeanRadius struct {
	running
}

func NewMeanRadius() *MeanRadius { return &MeanRadius{} }

func (m *MeanRadius) Name() string { return "mean_radius" }

func (m *MeanRadius) Observe(f pattern.Frame) {
	rs := make([]float64, len(f.Circles))
	for i, c := range f.Circles {
		rs[i] = c.EffectiveRadius()
	}
	m.add(mean(rs))
}
