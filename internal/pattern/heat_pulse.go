package pattern

import "math"

const (
	heatRings         = 5
	heatRingBase      = 200.0
	heatRingStep      = 50.0
	heatSpots         = 8
	heatSpotOrbit     = 150.0
	heatSpotRadius    = 40.0
	heatSpotOrbitRate = 0.5
)

type heatPulse struct {
	phaser
}

func NewHeatPulse(size Size) Generator {
	return &heatPulse{phaser{mode: HeatPulse, size: size}}
}

func (g *heatPulse) Frame(d Drive) Frame {
	return HeatPulseFrame(g.phase, d, g.size)
}

// HeatPulseFrame draws the rings first, then the hot spots above them.
func HeatPulseFrame(phase float64, d Drive, size Size) Frame {
	p := d.Clamp().Params
	b := p.Brightness
	c := size.Center()
	f := Frame{
		Mode:    HeatPulse,
		Size:    size,
		Phase:   phase,
		Circles: make([]Circle, 0, heatRings+heatSpots),
	}

	ring := Gradient(p.Scheme.Secondary.Fade(0.6*b), p.Scheme.Accent.Fade(0.3*b), p.Scheme.Accent.WithAlpha(0))
	for k := 0; k < heatRings; k++ {
		fk := float64(k)
		f.Circles = append(f.Circles, Circle{
			Center:  c,
			Radius:  heatRingBase + heatRingStep*fk,
			Scale:   0.5 + 0.5*math.Sin(phase-fk*0.5),
			Opacity: (0.3 + 0.4*math.Sin(phase-fk*0.3)) * b,
			Paint:   ring,
		})
	}

	spot := Gradient(p.Scheme.Accent.Fade(0.8), p.Scheme.Accent.WithAlpha(0))
	for k := 0; k < heatSpots; k++ {
		fk := float64(k)
		angle := fk*math.Pi/4 + phase*heatSpotOrbitRate
		f.Circles = append(f.Circles, Circle{
			Center:  Point{c.X + math.Cos(angle)*heatSpotOrbit, c.Y + math.Sin(angle)*heatSpotOrbit},
			Radius:  heatSpotRadius,
			Scale:   1,
			Opacity: 0.4 + 0.6*math.Sin(phase+fk*0.2),
			Paint:   spot,
		})
	}
	return f
}
