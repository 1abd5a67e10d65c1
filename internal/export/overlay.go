package export

import (
	"fmt"

	svg "github.com/ajstarks/svgo"
)

const (
	MinOverlayOpacity     = 0.2
	MaxOverlayOpacity     = 0.8
	DefaultOverlayOpacity = 0.5

	overlayMargin  = 20
	overlayPadding = 16
)

// StoryOverlay is a dark text panel at the bottom of a story export, left
// for the user to fill in a story editor.
type StoryOverlay struct {
	Title   string
	Caption string
	Opacity float64
}

func NewStoryOverlay(opacity float64) *StoryOverlay {
	return &StoryOverlay{
		Title:   "Place Text Here",
		Caption: "Edit in your story editor",
		Opacity: opacity,
	}
}

// Alpha is the panel opacity clamped to [0.2, 0.8].
func (o StoryOverlay) Alpha() float64 {
	switch {
	case o.Opacity < MinOverlayOpacity:
		return MinOverlayOpacity
	case o.Opacity > MaxOverlayOpacity:
		return MaxOverlayOpacity
	}
	return o.Opacity
}

func (o StoryOverlay) draw(canvas *svg.SVG, width, height int) {
	h := max(72, height/12)
	x, y := overlayMargin, height-overlayMargin-h
	w := width - 2*overlayMargin
	if w <= 0 || y < 0 {
		return
	}
	canvas.Roundrect(x, y, w, h, 8, 8, fmt.Sprintf("fill:#000000;fill-opacity:%.3f", o.Alpha()))
	canvas.Text(x+overlayPadding, y+overlayPadding+18, o.Title,
		"fill:#ffffff;font-family:sans-serif;font-weight:bold;font-size:20px")
	canvas.Text(x+overlayPadding, y+overlayPadding+42, o.Caption,
		"fill:#ffffff;fill-opacity:0.8;font-family:sans-serif;font-size:14px")
}
