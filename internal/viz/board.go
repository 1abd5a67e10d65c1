package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/pulsegrid/internal/engine"
	"github.com/san-kum/pulsegrid/internal/layout"
	"github.com/san-kum/pulsegrid/internal/palette"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

// BoardTickMsg ticks one panel of a board.
type BoardTickMsg struct {
	Panel int
	At    time.Time
}

type boardPanel struct {
	layout layout.Layout
	eng    *engine.Engine
	canvas *Canvas
	frame  pattern.Frame
}

// BoardModel previews a moodboard. Every panel owns an engine so a board may
// show the same mode twice.
type BoardModel struct {
	board     *layout.Moodboard
	panels    []*boardPanel
	intensity float64
	running   bool
	styles    Styles
	err       error
}

// NewBoardModel sizes each panel's canvas from its rect within a
// cols × rows terminal area.
func NewBoardModel(mb *layout.Moodboard, cols, rows int, intensity float64, seed int64, logger *zap.Logger) BoardModel {
	m := BoardModel{board: mb, intensity: intensity, running: true}
	if len(mb.Layouts) > 0 {
		m.styles = NewStyles(ThemeFor(mb.Layouts[0].Settings.Scheme))
	} else {
		m.styles = NewStyles(ThemeFor(palette.Default))
	}

	for i, l := range mb.Layouts {
		r := l.Position.Scale(float64(cols), float64(rows))
		cw, ch := max(4, int(r.W)-2), max(2, int(r.H)-3)
		size := pattern.Size{Width: float64(cw * 20), Height: float64(ch * 40)}

		eng, err := engine.New(size, engine.WithSeed(seed+int64(i)), engine.WithLogger(logger))
		if err != nil {
			m.err = err
			return m
		}
		if _, err := eng.Activate(l.Mode); err != nil {
			m.err = err
			return m
		}
		p := &boardPanel{layout: l, eng: eng, canvas: NewCanvas(cw, ch)}
		p.frame, _ = eng.Latest(l.Mode)
		Raster(p.canvas, p.frame, l.Settings.Scheme.Background)
		m.panels = append(m.panels, p)
	}
	return m
}

func boardTick(i int, m pattern.Mode) tea.Cmd {
	return tea.Tick(m.TickInterval(), func(t time.Time) tea.Msg { return BoardTickMsg{Panel: i, At: t} })
}

func (m BoardModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.panels))
	for i, p := range m.panels {
		cmds[i] = boardTick(i, p.layout.Mode)
	}
	return tea.Batch(cmds...)
}

func (m BoardModel) Err() error { return m.err }

// Close releases every panel's pools.
func (m BoardModel) Close() {
	for _, p := range m.panels {
		p.eng.Close()
	}
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			for _, p := range m.panels {
				p.eng.SetRunning(m.running)
			}
		case "+", "=":
			m.intensity = pattern.Drive{Intensity: m.intensity + intensityStep}.Clamp().Intensity
		case "-", "_":
			m.intensity = pattern.Drive{Intensity: m.intensity - intensityStep}.Clamp().Intensity
		}
	case BoardTickMsg:
		if msg.Panel < 0 || msg.Panel >= len(m.panels) {
			return m, nil
		}
		p := m.panels[msg.Panel]
		f, err := p.eng.Tick(p.layout.Mode, pattern.NewDrive(p.layout.Settings, m.intensity))
		if err != nil {
			m.err = err
			return m, nil
		}
		p.frame = f
		p.canvas.Clear()
		Raster(p.canvas, f, p.layout.Settings.Scheme.Background)
		return m, boardTick(msg.Panel, p.layout.Mode)
	}
	return m, nil
}

func (m BoardModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	// Panels sharing a top edge form a row.
	rows := map[float64][]*boardPanel{}
	for _, p := range m.panels {
		y := p.layout.Position.Y
		rows[y] = append(rows[y], p)
	}
	ys := make([]float64, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Float64s(ys)

	rendered := make([]string, 0, len(ys))
	for _, y := range ys {
		cells := make([]string, 0, len(rows[y]))
		for _, p := range rows[y] {
			title := m.styles.PanelTitle.Render(p.layout.Label)
			cells = append(cells, m.styles.Panel.Render(title+"\n"+p.canvas.Render()))
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	status := m.styles.Running.Render("RUNNING")
	if !m.running {
		status = m.styles.Paused.Render("PAUSED")
	}
	header := m.styles.Header.Render(strings.ToUpper(m.board.Name)) + "  " + status +
		m.styles.Subtle.Render(fmt.Sprintf("  intensity %.1f", m.intensity))
	return header + "\n" + lipgloss.JoinVertical(lipgloss.Left, rendered...) +
		"\n" + m.styles.Subtle.Render("SP:Pause +-:Intensity Q:Quit")
}
