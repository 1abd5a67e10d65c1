package pattern

type neuroSpark struct {
	size  Size
	phase float64
	graph *Graph

	// skipped counts connections dropped by the last Frame call.
	skipped int
}

func NewNeuroSpark(size Size, src Source) Generator {
	return &neuroSpark{size: size, graph: NewGraph(size, NodeCount, ConnectionAttempts, src)}
}

func (g *neuroSpark) Mode() Mode     { return NeuroSpark }
func (g *neuroSpark) Phase() float64 { return g.phase }
func (g *neuroSpark) Graph() *Graph  { return g.graph }

func (g *neuroSpark) Advance(d Drive) {
	g.phase += NeuroSpark.PhaseStep() * d.Rate()
	g.graph.Animate(g.phase)
}

// Skipped reports how many connections the last frame could not resolve.
func (g *neuroSpark) Skipped() int { return g.skipped }

// Frame draws edges below nodes. An edge whose endpoint is gone is left out.
func (g *neuroSpark) Frame(d Drive) Frame {
	p := d.Clamp().Params
	b := p.Brightness
	f := Frame{
		Mode:    NeuroSpark,
		Size:    g.size,
		Phase:   g.phase,
		Lines:   make([]Line, 0, len(g.graph.connections)),
		Circles: make([]Circle, 0, len(g.graph.nodes)),
	}

	g.skipped = 0
	for _, c := range g.graph.connections {
		start, ok := g.graph.Node(c.Start)
		if !ok {
			g.skipped++
			continue
		}
		end, ok := g.graph.Node(c.End)
		if !ok {
			g.skipped++
			continue
		}
		f.Lines = append(f.Lines, Line{
			From:    start.Pos,
			To:      end.Pos,
			Width:   p.LineWidth,
			Opacity: c.Opacity,
			Paint:   Gradient(p.Scheme.Primary.Fade(c.Intensity*b), p.Scheme.Accent.Fade(c.Intensity*0.8*b)),
		})
	}

	node := Gradient(p.Scheme.Accent.Fade(b), p.Scheme.Primary.Fade(0.6*b), p.Scheme.Primary.WithAlpha(0))
	for _, n := range g.graph.nodes {
		f.Circles = append(f.Circles, Circle{
			Center:  n.Pos,
			Radius:  n.Size,
			Scale:   n.Scale,
			Opacity: n.Opacity,
			Paint:   node,
		})
	}
	return f
}
