// Package layout packs one to four pattern panels into normalized regions of
// a combined moodboard.
package layout

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/pulsegrid/internal/palette"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

const MaxPanels = 4

var ErrInvalidPanelCount = errors.New("layout: panel count must be between 1 and 4")

// Rect is a region of the unit square.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

func (r Rect) Area() float64 { return r.W * r.H }

// Scale maps the normalized rect onto a canvas of the given size.
func (r Rect) Scale(width, height float64) Rect {
	return Rect{X: r.X * width, Y: r.Y * height, W: r.W * width, H: r.H * height}
}

// Contains reports whether the point lies in [X, X+W) × [Y, Y+H).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Panel is one requested cell of a board.
type Panel struct {
	Mode     pattern.Mode
	Settings pattern.Params
	Label    string
}

// Layout is a placed panel. Layouts are immutable; editing a board means
// composing a new set.
type Layout struct {
	Mode     pattern.Mode   `json:"mode"`
	Settings pattern.Params `json:"settings"`
	Label    string         `json:"label"`
	Position Rect           `json:"position"`
}

// Position returns the fixed rect of panel index out of total.
func Position(index, total int) (Rect, error) {
	if total < 1 || total > MaxPanels {
		return Rect{}, fmt.Errorf("%w: got %d", ErrInvalidPanelCount, total)
	}
	if index < 0 || index >= total {
		return Rect{}, fmt.Errorf("layout: panel index %d out of range for %d panels", index, total)
	}

	switch total {
	case 1:
		return Rect{0, 0, 1, 1}, nil
	case 2:
		return Rect{0.5 * float64(index), 0, 0.5, 1}, nil
	case 3:
		if index == 0 {
			return Rect{0, 0, 1, 0.5}, nil
		}
		return Rect{0.5 * float64(index-1), 0.5, 0.5, 0.5}, nil
	default:
		col, row := index%2, 0
		if index >= 2 {
			row = 1
		}
		return Rect{0.5 * float64(col), 0.5 * float64(row), 0.5, 0.5}, nil
	}
}

// Compose places panels in order. A blank label falls back to the mode name.
func Compose(panels []Panel) ([]Layout, error) {
	if len(panels) < 1 || len(panels) > MaxPanels {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPanelCount, len(panels))
	}
	out := make([]Layout, len(panels))
	for i, p := range panels {
		rect, err := Position(i, len(panels))
		if err != nil {
			return nil, err
		}
		label := p.Label
		if label == "" {
			label = p.Mode.String()
		}
		out[i] = Layout{Mode: p.Mode, Settings: p.Settings, Label: label, Position: rect}
	}
	return out, nil
}

// Moodboard is a named, composed board.
type Moodboard struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Layouts   []Layout  `json:"layouts"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMoodboard composes panels under name. The ID is derived from the name
// and the creation time.
func NewMoodboard(name string, panels []Panel, now time.Time) (*Moodboard, error) {
	if name == "" {
		return nil, errors.New("layout: moodboard name is empty")
	}
	layouts, err := Compose(panels)
	if err != nil {
		return nil, err
	}
	return &Moodboard{
		ID:        fmt.Sprintf("%s_%d", palette.Slug(name), now.Unix()),
		Name:      name,
		Layouts:   layouts,
		CreatedAt: now,
	}, nil
}
