package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pulsegrid/internal/palette"
)

// Theme is the TUI chrome derived from a color scheme.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
}

func hex(c palette.Color) lipgloss.Color {
	return lipgloss.Color(c.WithAlpha(1).Hex())
}

// ThemeFor derives text and muted tones by blending the scheme toward its
// background.
func ThemeFor(s palette.Scheme) Theme {
	white := palette.MustHex("#ffffff")
	return Theme{
		Name:       s.Name,
		Primary:    hex(s.Primary),
		Secondary:  hex(s.Secondary),
		Accent:     hex(s.Accent),
		Background: hex(s.Background),
		Text:       hex(s.Background.Blend(white, 0.9)),
		Muted:      hex(s.Background.Blend(white, 0.45)),
		Success:    hex(s.Primary),
		Warning:    hex(s.Accent),
	}
}
