package pattern

import "math"

const (
	stressScanlines   = 20
	stressSampleStep  = 4.0
	stressAmplitude   = 20.0
	stressStressLines = 5
)

type stressWave struct {
	phaser
}

func NewStressWave(size Size) Generator {
	return &stressWave{phaser{mode: StressWave, size: size}}
}

func (g *stressWave) Frame(d Drive) Frame {
	return StressWaveFrame(g.phase, d, g.size)
}

// StressWaveFrame displaces each scanline by a travelling sine whose
// amplitude scales with intensity × speed.
func StressWaveFrame(phase float64, d Drive, size Size) Frame {
	c := d.Clamp()
	p := c.Params
	amp := stressAmplitude * c.Intensity * p.Speed
	f := Frame{
		Mode:      StressWave,
		Size:      size,
		Phase:     phase,
		Lines:     make([]Line, 0, stressStressLines),
		Polylines: make([]Polyline, 0, stressScanlines),
	}

	samples := int(size.Width/stressSampleStep) + 1
	dy := size.Height / float64(stressScanlines-1)
	stroke := Solid(p.Scheme.Primary)
	for row := 0; row < stressScanlines; row++ {
		y := dy * float64(row)
		pts := make([]Point, 0, samples)
		for i := 0; i < samples; i++ {
			x := float64(i) * stressSampleStep
			pts = append(pts, Point{x, y + math.Sin(phase+x*0.02+float64(row)*0.1)*amp})
		}
		f.Polylines = append(f.Polylines, Polyline{
			Points:  pts,
			Width:   p.LineWidth,
			Opacity: (0.4 + 0.6*math.Sin(phase+float64(row)*0.1)) * p.Brightness,
			Paint:   stroke,
		})
	}

	dx := size.Width / float64(stressStressLines-1)
	stress := Solid(p.Scheme.Secondary)
	for k := 0; k < stressStressLines; k++ {
		x := dx * float64(k)
		f.Lines = append(f.Lines, Line{
			From:    Point{x, 0},
			To:      Point{x, size.Height},
			Width:   1,
			Opacity: 0.3 + 0.4*math.Sin(phase+float64(k)*0.3),
			Paint:   stress,
		})
	}
	return f
}
