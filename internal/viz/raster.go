package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pulsegrid/internal/palette"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

// MinAlpha is the opacity below which a primitive is not drawn in the
// terminal.
const MinAlpha = 0.08

// Raster draws f onto c, scaling the frame canvas onto the sub-pixel grid.
// Colors are the paint base blended toward bg by the primitive's alpha.
func Raster(c *Canvas, f pattern.Frame, bg palette.Color) {
	if f.Size.Validate() != nil {
		return
	}
	pw, ph := c.PixelSize()
	sx := float64(pw) / f.Size.Width
	sy := float64(ph) / f.Size.Height
	pt := func(p pattern.Point) (int, int) {
		return int(math.Round(p.X * sx)), int(math.Round(p.Y * sy))
	}

	for _, l := range f.Lines {
		a := l.Alpha()
		if a < MinAlpha {
			continue
		}
		x0, y0 := pt(l.From)
		x1, y1 := pt(l.To)
		c.DrawLine(x0, y0, x1, y1, shade(l.Paint, a, bg))
	}
	for _, p := range f.Polylines {
		a := p.Alpha()
		if a < MinAlpha || len(p.Points) == 0 {
			continue
		}
		col := shade(p.Paint, a, bg)
		x0, y0 := pt(p.Points[0])
		for _, q := range p.Points[1:] {
			x1, y1 := pt(q)
			c.DrawLine(x0, y0, x1, y1, col)
			x0, y0 = x1, y1
		}
	}
	scale := math.Min(sx, sy)
	for _, ci := range f.Circles {
		a := ci.Alpha()
		if a < MinAlpha {
			continue
		}
		x, y := pt(ci.Center)
		r := int(math.Round(ci.EffectiveRadius() * scale))
		col := shade(ci.Paint, a, bg)
		if r <= 2 {
			c.FillCircle(x, y, r, col)
		} else {
			c.DrawCircle(x, y, r, col)
		}
	}
}

func shade(p pattern.Paint, alpha float64, bg palette.Color) lipgloss.Color {
	base := p.Base()
	mix := bg.Blend(base.WithAlpha(1), alpha*base.Clamped().A)
	return lipgloss.Color(mix.WithAlpha(1).Hex())
}
