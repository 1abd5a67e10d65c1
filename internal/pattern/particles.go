package pattern

import "math"

const (
	ParticleCount = 50

	fieldStrength  = 200.0
	fieldTurnRate  = 0.01
	shimmerBase    = 0.3
	shimmerAmp     = 0.5
	shimmerSpacing = 0.1
)

// Particle is one body of the magnetic field pool. Size never changes after
// the pool is seeded.
type Particle struct {
	ID      int
	Pos     Point
	Angle   float64
	Speed   float64
	Size    float64
	Opacity float64
}

// ParticlePool owns the particles of one magnetic field instance and wraps
// them on a torus of the pool's size.
type ParticlePool struct {
	size      Size
	particles []Particle
	time      float64
}

func NewParticlePool(size Size, n int, src Source) *ParticlePool {
	p := &ParticlePool{size: size, particles: make([]Particle, n)}
	for i := range p.particles {
		p.particles[i] = Particle{
			ID:      i,
			Pos:     p.wrap(Point{uniform(src, 0, size.Width), uniform(src, 0, size.Height)}),
			Angle:   uniform(src, 0, 2*math.Pi),
			Speed:   uniform(src, 1, 3),
			Size:    uniform(src, 4, 12),
			Opacity: uniform(src, 0.3, 0.8),
		}
	}
	return p
}

func (p *ParticlePool) Len() int { return len(p.particles) }

// Particles returns a copy of the pool.
func (p *ParticlePool) Particles() []Particle {
	out := make([]Particle, len(p.particles))
	copy(out, p.particles)
	return out
}

// Time is the shimmer accumulator.
func (p *ParticlePool) Time() float64 { return p.time }

// Step moves every particle along its heading, bending the heading by a
// force that falls off with distance from the centre. Opacity shimmers on
// its own clock and does not depend on the motion.
func (p *ParticlePool) Step(rate float64) {
	p.time += MagneticField.PhaseStep() * rate
	c := p.size.Center()
	for i := range p.particles {
		pt := &p.particles[i]
		r := math.Hypot(pt.Pos.X-c.X, pt.Pos.Y-c.Y)
		force := fieldStrength / (r + 1)

		pt.Angle += force * fieldTurnRate * rate
		pt.Pos.X += math.Cos(pt.Angle) * pt.Speed * rate
		pt.Pos.Y += math.Sin(pt.Angle) * pt.Speed * rate
		pt.Pos = p.wrap(pt.Pos)

		pt.Opacity = shimmerBase + shimmerAmp*math.Sin(p.time+float64(i)*shimmerSpacing)
	}
}

// wrap maps a point into [0, w) × [0, h).
func (p *ParticlePool) wrap(pt Point) Point {
	return Point{wrapAxis(pt.X, p.size.Width), wrapAxis(pt.Y, p.size.Height)}
}

func wrapAxis(v, extent float64) float64 {
	v = math.Mod(v, extent)
	if v < 0 {
		v += extent
	}
	// v+extent can round up to extent for tiny negative v.
	if v >= extent {
		v = 0
	}
	return v
}
