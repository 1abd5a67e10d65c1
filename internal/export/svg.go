// Package export renders frames and moodboards as static SVG documents.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/san-kum/pulsegrid/internal/layout"
	"github.com/san-kum/pulsegrid/internal/palette"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

var ErrFrameCount = errors.New("export: one frame per layout required")

type Options struct {
	Width, Height int
	Background    palette.Color
	Title         string
	// Overlay adds a story text placeholder; used with the instagram format.
	Overlay *StoryOverlay
}

// errWriter keeps the first write error; svgo itself never reports one.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// Frame writes f as a standalone SVG. The frame's own size becomes the
// viewBox, scaled to cover opts.Width × opts.Height.
func Frame(w io.Writer, f pattern.Frame, opts Options) error {
	if err := f.Size.Validate(); err != nil {
		return err
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = round(f.Size.Width), round(f.Size.Height)
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, round(f.Size.Width), round(f.Size.Height)),
		`preserveAspectRatio="xMidYMid slice"`)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	canvas.Rect(0, 0, round(f.Size.Width), round(f.Size.Height), fill(opts.Background))
	drawFrame(canvas, f, "f")
	if opts.Overlay != nil {
		opts.Overlay.draw(canvas, round(f.Size.Width), round(f.Size.Height))
	}
	canvas.End()
	return ew.err
}

// Moodboard writes every layout of mb into its rect of a width × height
// canvas. frames[i] is drawn into mb.Layouts[i] and should have been
// generated at that panel's scaled size.
func Moodboard(w io.Writer, mb *layout.Moodboard, frames []pattern.Frame, width, height int, bg palette.Color) error {
	if len(frames) != len(mb.Layouts) {
		return fmt.Errorf("%w: %d layouts, %d frames", ErrFrameCount, len(mb.Layouts), len(frames))
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title(mb.Name)
	canvas.Rect(0, 0, width, height, fill(bg))

	canvas.Def()
	for i, l := range mb.Layouts {
		r := l.Position.Scale(float64(width), float64(height))
		canvas.ClipPath(fmt.Sprintf(`id="clip%d"`, i))
		canvas.Rect(round(r.X), round(r.Y), round(r.W), round(r.H))
		canvas.ClipEnd()
	}
	canvas.DefEnd()

	for i, l := range mb.Layouts {
		r := l.Position.Scale(float64(width), float64(height))
		canvas.Group(fmt.Sprintf(`clip-path="url(#clip%d)"`, i))
		canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", round(r.X), round(r.Y)))
		drawFrame(canvas, frames[i], fmt.Sprintf("p%d", i))
		canvas.Text(12, 24, l.Label, "fill:#ffffff;fill-opacity:0.8;font-family:monospace;font-size:14px")
		canvas.Gend()
		canvas.Gend()
	}
	canvas.End()
	return ew.err
}

// drawFrame emits the gradient defs of f followed by its primitives in the
// order lines, polylines, circles. Gradient ids are prefixed to stay unique
// within one document.
func drawFrame(canvas *svg.SVG, f pattern.Frame, prefix string) {
	n := 0
	nextID := func() string {
		n++
		return fmt.Sprintf("%s-g%d", prefix, n)
	}

	type gradient struct {
		id             string
		radial         bool
		x1, y1, x2, y2 uint8
		stops          []svg.Offcolor
	}
	var defs []gradient
	lineRefs := make([]string, len(f.Lines))
	polyRefs := make([]string, len(f.Polylines))
	circleRefs := make([]string, len(f.Circles))

	for i, l := range f.Lines {
		if len(l.Paint) > 1 && l.From.X != l.To.X && l.From.Y != l.To.Y {
			g := gradient{id: nextID(), stops: offcolors(l.Paint)}
			g.x1, g.x2 = direction(l.From.X, l.To.X)
			g.y1, g.y2 = direction(l.From.Y, l.To.Y)
			defs = append(defs, g)
			lineRefs[i] = g.id
		}
	}
	for i, p := range f.Polylines {
		if len(p.Paint) > 1 && len(p.Points) > 1 {
			g := gradient{id: nextID(), stops: offcolors(p.Paint), x2: 100}
			defs = append(defs, g)
			polyRefs[i] = g.id
		}
	}
	for i, c := range f.Circles {
		if len(c.Paint) > 1 {
			g := gradient{id: nextID(), radial: true, stops: offcolors(c.Paint)}
			defs = append(defs, g)
			circleRefs[i] = g.id
		}
	}

	if len(defs) > 0 {
		canvas.Def()
		for _, g := range defs {
			if g.radial {
				canvas.RadialGradient(g.id, 50, 50, 50, 50, 50, g.stops)
			} else {
				canvas.LinearGradient(g.id, g.x1, g.y1, g.x2, g.y2, g.stops)
			}
		}
		canvas.DefEnd()
	}

	for i, l := range f.Lines {
		stroke := paintRef(lineRefs[i], l.Paint)
		canvas.Line(round(l.From.X), round(l.From.Y), round(l.To.X), round(l.To.Y),
			fmt.Sprintf("stroke:%s;stroke-width:%.2f;stroke-opacity:%.3f", stroke, l.Width, l.Alpha()))
	}
	for i, p := range f.Polylines {
		xs := make([]int, len(p.Points))
		ys := make([]int, len(p.Points))
		for j, pt := range p.Points {
			xs[j], ys[j] = round(pt.X), round(pt.Y)
		}
		stroke := paintRef(polyRefs[i], p.Paint)
		canvas.Polyline(xs, ys,
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f;stroke-opacity:%.3f", stroke, p.Width, p.Alpha()))
	}
	for i, c := range f.Circles {
		r := c.EffectiveRadius()
		if r <= 0 {
			continue
		}
		canvas.Circle(round(c.Center.X), round(c.Center.Y), max(1, round(r)),
			fmt.Sprintf("fill:%s;fill-opacity:%.3f", paintRef(circleRefs[i], c.Paint), c.Alpha()))
	}
}

func offcolors(p pattern.Paint) []svg.Offcolor {
	out := make([]svg.Offcolor, len(p))
	for i, s := range p {
		out[i] = svg.Offcolor{
			Offset:  uint8(math.Round(clampPct(s.Offset * 100))),
			Color:   s.Color.Color.Clamped().Hex(),
			Opacity: s.Color.Clamped().A,
		}
	}
	return out
}

func paintRef(id string, p pattern.Paint) string {
	if id != "" {
		return fmt.Sprintf("url(#%s)", id)
	}
	return p.Base().Color.Clamped().Hex()
}

func fill(c palette.Color) string {
	c = c.Clamped()
	return fmt.Sprintf("fill:%s;fill-opacity:%.3f", c.Color.Hex(), c.A)
}

// direction maps a segment's start and end coordinate onto bounding-box
// percentages so the gradient runs from the start point.
func direction(from, to float64) (uint8, uint8) {
	if from <= to {
		return 0, 100
	}
	return 100, 0
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round(v float64) int { return int(math.Round(v)) }
