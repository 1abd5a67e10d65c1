package pattern

import "math"

const (
	meshRows       = 8
	meshCols       = 6
	meshNodeRadius = 4.0
)

type signalMesh struct {
	phaser
}

func NewSignalMesh(size Size) Generator {
	return &signalMesh{phaser{mode: SignalMesh, size: size}}
}

func (g *signalMesh) Frame(d Drive) Frame {
	return SignalMeshFrame(g.phase, d, g.size)
}

// SignalMeshFrame is the grid at a given phase.
func SignalMeshFrame(phase float64, d Drive, size Size) Frame {
	p := d.Clamp().Params
	f := Frame{
		Mode:    SignalMesh,
		Size:    size,
		Phase:   phase,
		Lines:   make([]Line, 0, meshRows+meshCols),
		Circles: make([]Circle, 0, meshRows*meshCols),
	}
	dx := size.Width / float64(meshCols-1)
	dy := size.Height / float64(meshRows-1)
	accent := Solid(p.Scheme.Accent)

	for col := 0; col < meshCols; col++ {
		x := dx * float64(col)
		f.Lines = append(f.Lines, Line{
			From:    Point{x, 0},
			To:      Point{x, size.Height},
			Width:   p.LineWidth,
			Opacity: 0.3 + 0.7*math.Sin(phase+float64(col)*0.5)*p.Brightness,
			Paint:   accent,
		})
	}
	for row := 0; row < meshRows; row++ {
		y := dy * float64(row)
		f.Lines = append(f.Lines, Line{
			From:    Point{0, y},
			To:      Point{size.Width, y},
			Width:   p.LineWidth,
			Opacity: 0.3 + 0.7*math.Sin(phase+float64(row)*0.5)*p.Brightness,
			Paint:   accent,
		})
	}

	node := Solid(p.Scheme.Secondary.Fade(p.Brightness))
	for row := 0; row < meshRows; row++ {
		for col := 0; col < meshCols; col++ {
			k := float64(row + col)
			f.Circles = append(f.Circles, Circle{
				Center:  Point{dx * float64(col), dy * float64(row)},
				Radius:  meshNodeRadius,
				Scale:   1 + 0.5*math.Sin(phase+k*0.2),
				Opacity: 0.5 + 0.5*math.Sin(phase+k*0.3),
				Paint:   node,
			})
		}
	}
	return f
}
