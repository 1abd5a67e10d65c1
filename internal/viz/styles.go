package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pulsegrid/internal/palette"
)

// Styles is the set of lipgloss styles the views render with.
type Styles struct {
	Header     lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	Active     lipgloss.Style
	Running    lipgloss.Style
	Paused     lipgloss.Style
	Help       lipgloss.Style
	Stats      lipgloss.Style
	Canvas     lipgloss.Style
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	Graph      lipgloss.Style
	Favorite   lipgloss.Style
	Subtle     lipgloss.Style
	theme      Theme
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header:     lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		Label:      lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:      lipgloss.NewStyle().Foreground(t.Text),
		Active:     lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Running:    lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Paused:     lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Help:       lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		Stats:      lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(38),
		Canvas:     lipgloss.NewStyle().Padding(1, 2),
		Panel:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted),
		PanelTitle: lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		Graph:      lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		Favorite:   lipgloss.NewStyle().Foreground(t.Accent),
		Subtle:     lipgloss.NewStyle().Foreground(t.Muted),
		theme:      t,
	}
}

// GradientText colors each rune of text along a Lab blend from start to end.
func GradientText(text string, start, end palette.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var result strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		style := lipgloss.NewStyle().Foreground(hex(start.Blend(end, t)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

// ProgressBar renders percent of width as a filled bar.
func (s Styles) ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if percent > 0.2 {
		return s.Running.Render(bar)
	}
	return s.Paused.Render(bar)
}

// Sparkline renders the last width values as block characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		b.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return b.String()
}

func (s Styles) Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(0, mid-3))
	right := strings.Repeat("─", max(0, width-mid-3))
	return s.Subtle.Render(left + " ◆ " + right)
}

func (s Styles) Theme() Theme { return s.theme }
