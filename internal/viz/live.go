package viz

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pulsegrid/internal/config"
	"github.com/san-kum/pulsegrid/internal/engine"
	"github.com/san-kum/pulsegrid/internal/export"
	"github.com/san-kum/pulsegrid/internal/metrics"
	"github.com/san-kum/pulsegrid/internal/palette"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 120

	speedStep     = 0.1
	intensityStep = 0.1
)

// TickMsg is one frame-clock tick for the mode it names. Ticks addressed to
// a mode that is no longer shown are dropped.
type TickMsg struct {
	Mode pattern.Mode
	At   time.Time
}

func tick(m pattern.Mode) tea.Cmd {
	return tea.Tick(m.TickInterval(), func(t time.Time) tea.Msg { return TickMsg{Mode: m, At: t} })
}

type LiveOptions struct {
	// Presentation enables the countdown; zero runs until quit.
	Presentation time.Duration
	// SnapshotDir receives SVG snapshots taken with the s key.
	SnapshotDir string
	// Now is the clock used for the countdown; defaults to time.Now.
	Now func() time.Time
}

// Model is the single-pattern live preview.
type Model struct {
	eng     *engine.Engine
	cfg     *config.Config
	schemes *palette.Registry
	opts    LiveOptions

	mode     pattern.Mode
	canvas   *Canvas
	styles   Styles
	frame    pattern.Frame
	opacity  *metrics.MeanOpacity
	history  []float64
	deadline time.Time
	left     time.Duration
	message  string
	showHelp bool
	done     bool
	err      error
}

func NewModel(eng *engine.Engine, cfg *config.Config, schemes *palette.Registry, mode pattern.Mode, opts LiveOptions) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := Model{
		eng:     eng,
		cfg:     cfg,
		schemes: schemes,
		opts:    opts,
		mode:    mode,
		canvas:  NewCanvas(width, height),
		opacity: metrics.NewMeanOpacity(),
		history: make([]float64, 0, historyCapacity),
	}
	eng.SetRunning(cfg.Running)
	if _, err := eng.Activate(mode); err != nil {
		m.err = err
	}
	if opts.Presentation > 0 {
		m.deadline = opts.Now().Add(opts.Presentation)
		m.left = opts.Presentation
	}
	m.restyle()
	return m
}

func (m Model) Init() tea.Cmd { return tick(m.mode) }

func (m Model) Mode() pattern.Mode   { return m.mode }
func (m Model) Frame() pattern.Frame { return m.frame }
func (m Model) Done() bool           { return m.done }
func (m Model) Err() error           { return m.err }

func (m *Model) drive() pattern.Drive { return m.cfg.Drive(m.mode, m.schemes) }

func (m *Model) restyle() {
	m.styles = NewStyles(ThemeFor(m.drive().Params.Scheme))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if msg.Mode != m.mode || m.done {
			return m, nil
		}
		if !m.deadline.IsZero() {
			m.left = m.deadline.Sub(msg.At)
			if m.left <= 0 {
				m.done = true
				return m, tea.Quit
			}
		}
		m.step()
		return m, tick(m.mode)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.done = true
		return m, tea.Quit
	case " ":
		m.cfg.Running = m.eng.Toggle()
	case "tab":
		next := pattern.Modes()[(int(m.mode)+1)%len(pattern.Modes())]
		return m, m.switchMode(next)
	case "shift+tab":
		n := len(pattern.Modes())
		return m, m.switchMode(pattern.Modes()[(int(m.mode)+n-1)%n])
	case "up", "k":
		m.adjustSpeed(speedStep)
	case "down", "j":
		m.adjustSpeed(-speedStep)
	case "+", "=":
		m.adjustIntensity(intensityStep)
	case "-", "_":
		m.adjustIntensity(-intensityStep)
	case "t":
		pc := m.cfg.Pattern(m.mode)
		current, err := m.schemes.Get(pc.ColorScheme)
		if err != nil {
			current = palette.Default
		}
		pc.ColorScheme = m.schemes.Next(current.ID).Name
		m.cfg.SetPattern(m.mode, pc)
		m.restyle()
	case "f":
		if m.cfg.ToggleFavorite(m.mode) {
			m.message = "added to favorites"
		} else {
			m.message = "removed from favorites"
		}
	case "s":
		m.snapshot()
	case "?":
		m.showHelp = !m.showHelp
	}
	m.redraw()
	return m, nil
}

// switchMode releases the current pools before allocating the next mode.
func (m *Model) switchMode(next pattern.Mode) tea.Cmd {
	m.eng.Deactivate(m.mode)
	m.mode = next
	m.history = m.history[:0]
	m.opacity.Reset()
	if _, err := m.eng.Activate(next); err != nil {
		m.err = err
		return nil
	}
	m.cfg.Mode = next.Slug()
	m.restyle()
	m.redraw()
	return tick(next)
}

func (m *Model) adjustSpeed(delta float64) {
	pc := m.cfg.Pattern(m.mode)
	pc.Speed = pattern.Params{Speed: pc.Speed + delta, Brightness: 1, LineWidth: 1}.Clamp().Speed
	m.cfg.SetPattern(m.mode, pc)
}

func (m *Model) adjustIntensity(delta float64) {
	m.cfg.Intensity = pattern.Drive{Intensity: m.cfg.Intensity + delta}.Clamp().Intensity
}

func (m *Model) step() {
	f, err := m.eng.Tick(m.mode, m.drive())
	if err != nil {
		m.err = err
		return
	}
	m.frame = f
	m.opacity.Observe(f)
	m.history = append(m.history, m.opacity.Last())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	m.redraw()
}

func (m *Model) redraw() {
	if m.frame.Size.Validate() != nil {
		if f, err := m.eng.Latest(m.mode); err == nil {
			m.frame = f
		}
	}
	m.canvas.Clear()
	Raster(m.canvas, m.frame, m.drive().Params.Scheme.Background)
}

func (m *Model) snapshot() {
	dir := m.opts.SnapshotDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		m.message = err.Error()
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%d.svg", m.mode.Slug(), m.opts.Now().Unix()))
	d := m.drive()
	f, err := m.eng.Snapshot(m.mode, d)
	if err != nil {
		m.message = err.Error()
		return
	}
	file, err := os.Create(path)
	if err != nil {
		m.message = err.Error()
		return
	}
	defer file.Close()
	if err := export.Frame(file, f, export.Options{Background: d.Params.Scheme.Background, Title: m.mode.String()}); err != nil {
		m.message = err.Error()
		return
	}
	m.message = "saved " + path
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}
	st := m.styles
	d := m.drive()
	canvasView := st.Canvas.Render(m.canvas.Render())

	var s strings.Builder
	title := strings.ToUpper(m.mode.String())
	if m.cfg.IsFavorite(m.mode) {
		title += " " + st.Favorite.Render("★")
	}
	s.WriteString(st.Header.Render(title) + "\n")

	if m.eng.Running() {
		s.WriteString(st.Running.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(st.Paused.Render("PAUSED") + "\n\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Opacity"))
		s.WriteString(st.Graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Phase", fmt.Sprintf("%.2f", m.frame.Phase))
	row("Speed", fmt.Sprintf("%.1f", d.Params.Speed))
	row("Intensity", fmt.Sprintf("%.1f", d.Intensity))
	row("Brightness", fmt.Sprintf("%.1f", d.Params.Brightness))
	row("Scheme", d.Params.Scheme.Name)
	row("Primitives", fmt.Sprintf("%d", m.frame.Len()))
	row("Interval", m.mode.TickInterval().String())

	if !m.deadline.IsZero() {
		left := m.left.Round(time.Second)
		s.WriteString("\n" + st.Label.Render("Remaining") + st.Value.Render(left.String()) + "\n")
		s.WriteString(st.ProgressBar(float64(m.left)/float64(m.opts.Presentation), 24) + "\n")
	}

	if m.message != "" {
		s.WriteString("\n" + st.Subtle.Render(m.message) + "\n")
	}

	s.WriteString(st.Help.Render(st.Separator(28) + "\nSP:Pause TAB:Mode T:Scheme\n↑↓:Speed +-:Intensity\nF:Fav S:Snap ?:Help Q:Quit"))
	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.Stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + view
	}
	return view
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  Tab      - Next pattern             ║
║  Up/K     - Speed +0.1               ║
║  Down/J   - Speed -0.1               ║
║  + / -    - Intensity ±0.1           ║
║  T        - Next color scheme        ║
║  F        - Toggle favorite          ║
║  S        - Save SVG snapshot        ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
