package pattern

import (
	"fmt"

	"github.com/san-kum/pulsegrid/internal/palette"
)

type Point struct {
	X, Y float64
}

// Size is the canvas extent in the renderer's units.
type Size struct {
	Width, Height float64
}

func (s Size) Validate() error {
	if !(s.Width > 0) || !(s.Height > 0) {
		return fmt.Errorf("%w: %gx%g", ErrEmptyCanvas, s.Width, s.Height)
	}
	return nil
}

func (s Size) Center() Point { return Point{s.Width / 2, s.Height / 2} }

// Stop is one color stop of a gradient; Offset runs from 0 to 1.
type Stop struct {
	Offset float64
	Color  palette.Color
}

// Paint is a solid color (one stop) or a gradient. Circles interpret it
// radially, lines and polylines along their length.
type Paint []Stop

func Solid(c palette.Color) Paint { return Paint{{Offset: 0, Color: c}} }

// Gradient spaces colors evenly from offset 0 to 1.
func Gradient(colors ...palette.Color) Paint {
	if len(colors) == 1 {
		return Solid(colors[0])
	}
	p := make(Paint, len(colors))
	for i, c := range colors {
		p[i] = Stop{Offset: float64(i) / float64(len(colors)-1), Color: c}
	}
	return p
}

// Base is the first stop color, used by renderers that cannot draw gradients.
func (p Paint) Base() palette.Color {
	if len(p) == 0 {
		return palette.Clear
	}
	return p[0].Color
}

type Line struct {
	From, To Point
	Width    float64
	Opacity  float64
	Paint    Paint
}

type Circle struct {
	Center  Point
	Radius  float64
	Scale   float64
	Opacity float64
	Paint   Paint
}

type Polyline struct {
	Points  []Point
	Width   float64
	Opacity float64
	Paint   Paint
}

// Alpha clamps the raw formula opacity into [0, 1].
func (l Line) Alpha() float64     { return clampUnit(l.Opacity) }
func (c Circle) Alpha() float64   { return clampUnit(c.Opacity) }
func (p Polyline) Alpha() float64 { return clampUnit(p.Opacity) }

// EffectiveRadius is the drawn radius after scaling.
func (c Circle) EffectiveRadius() float64 { return c.Radius * c.Scale }

// Frame is the drawable state of one mode at one instant. Opacity fields
// hold the exact formula values; renderers should go through Alpha.
type Frame struct {
	Mode      Mode
	Size      Size
	Phase     float64
	Lines     []Line
	Circles   []Circle
	Polylines []Polyline
}

// Len is the number of primitives in the frame.
func (f Frame) Len() int {
	return len(f.Lines) + len(f.Circles) + len(f.Polylines)
}

func clampUnit(v float64) float64 { return clamp(v, 0, 1) }
