package pattern

import "math"

const (
	NodeCount          = 15
	ConnectionAttempts = 20
	nodeMarginX        = 50.0
	nodeMarginY        = 100.0
)

type NodeID int

// Node positions and sizes are fixed at creation; opacity and scale animate.
type Node struct {
	ID      NodeID
	Pos     Point
	Size    float64
	Opacity float64
	Scale   float64
}

// Connection references its endpoints by ID and never owns them.
type Connection struct {
	ID        int
	Start     NodeID
	End       NodeID
	Intensity float64
	Opacity   float64
}

// Graph is the node arena of a neuro spark instance. Connections resolve
// their endpoints through the id index on every lookup.
type Graph struct {
	nodes       []Node
	index       map[NodeID]int
	connections []Connection
	nextID      NodeID
}

// NewGraph samples n nodes inside the margins and tries attempts random
// pairings. Identity pairs are discarded, so the graph may hold fewer
// connections than attempts; duplicate edges are kept.
func NewGraph(size Size, n, attempts int, src Source) *Graph {
	g := &Graph{index: make(map[NodeID]int, n)}
	xlo, xhi := marginRange(size.Width, nodeMarginX)
	ylo, yhi := marginRange(size.Height, nodeMarginY)
	for i := 0; i < n; i++ {
		g.AddNode(Node{
			Pos:     Point{uniform(src, xlo, xhi), uniform(src, ylo, yhi)},
			Size:    uniform(src, 8, 16),
			Opacity: uniform(src, 0.5, 1.0),
			Scale:   1,
		})
	}
	if len(g.nodes) == 0 {
		return g
	}
	for i := 0; i < attempts; i++ {
		start := g.nodes[src.Intn(len(g.nodes))].ID
		end := g.nodes[src.Intn(len(g.nodes))].ID
		if start == end {
			continue
		}
		g.connections = append(g.connections, Connection{
			ID:        len(g.connections),
			Start:     start,
			End:       end,
			Intensity: uniform(src, 0.3, 0.8),
			Opacity:   uniform(src, 0.2, 0.6),
		})
	}
	return g
}

// marginRange collapses to the midpoint when the extent cannot fit both
// margins.
func marginRange(extent, margin float64) (float64, float64) {
	if extent-margin <= margin {
		return extent / 2, extent / 2
	}
	return margin, extent - margin
}

// AddNode assigns the next ID and stores the node.
func (g *Graph) AddNode(n Node) NodeID {
	n.ID = g.nextID
	g.nextID++
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return n.ID
}

// RemoveNode drops a node. Connections that reference it stay in place and
// are skipped when drawn.
func (g *Graph) RemoveNode(id NodeID) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	delete(g.index, id)
	for j := i; j < len(g.nodes); j++ {
		g.index[g.nodes[j].ID] = j
	}
	return true
}

func (g *Graph) Node(id NodeID) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Graph) Connections() []Connection {
	out := make([]Connection, len(g.connections))
	copy(out, g.connections)
	return out
}

// Animate sets every node and connection from the spark phase.
func (g *Graph) Animate(phase float64) {
	for i := range g.nodes {
		fi := float64(i)
		g.nodes[i].Opacity = 0.5 + 0.5*math.Sin(phase+fi*0.2)
		g.nodes[i].Scale = 0.8 + 0.4*math.Sin(phase+fi*0.15)
	}
	for i := range g.connections {
		fi := float64(i)
		g.connections[i].Opacity = 0.2 + 0.4*math.Sin(phase+fi*0.3)
		g.connections[i].Intensity = 0.3 + 0.5*math.Sin(phase+fi*0.25)
	}
}
