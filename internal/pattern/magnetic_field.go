package pattern

type magneticField struct {
	size Size
	pool *ParticlePool
}

func NewMagneticField(size Size, src Source) Generator {
	return &magneticField{size: size, pool: NewParticlePool(size, ParticleCount, src)}
}

func (g *magneticField) Mode() Mode { return MagneticField }

// Phase reports the shimmer clock, the only accumulator this mode has.
func (g *magneticField) Phase() float64 { return g.pool.time }

func (g *magneticField) Advance(d Drive) { g.pool.Step(d.Rate()) }

func (g *magneticField) Pool() *ParticlePool { return g.pool }

func (g *magneticField) Frame(d Drive) Frame {
	p := d.Clamp().Params
	b := p.Brightness
	paint := Gradient(p.Scheme.Primary.Fade(0.8*b), p.Scheme.Secondary.Fade(0.4*b))
	f := Frame{
		Mode:    MagneticField,
		Size:    g.size,
		Phase:   g.pool.time,
		Circles: make([]Circle, 0, g.pool.Len()),
	}
	for _, pt := range g.pool.particles {
		f.Circles = append(f.Circles, Circle{
			Center:  pt.Pos,
			Radius:  pt.Size / 2,
			Scale:   1,
			Opacity: pt.Opacity,
			Paint:   paint,
		})
	}
	return f
}
