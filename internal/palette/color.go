package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrBadColor        = errors.New("palette: malformed hex color")
	ErrUnknownScheme   = errors.New("palette: unknown color scheme")
	ErrDuplicateScheme = errors.New("palette: color scheme already exists")
)

// Color is an sRGB color with straight alpha in [0, 1].
type Color struct {
	colorful.Color
	A float64
}

var Clear = Color{A: 0}

// ParseHex accepts rgb, rrggbb and aarrggbb, with or without a leading #.
func ParseHex(s string) (Color, error) {
	body := strings.TrimPrefix(strings.TrimSpace(s), "#")
	alpha := 1.0
	switch len(body) {
	case 3:
		body = string([]byte{body[0], body[0], body[1], body[1], body[2], body[2]})
	case 6:
	case 8:
		a, err := strconv.ParseUint(body[:2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		alpha = float64(a) / 255
		body = body[2:]
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	c, err := colorful.Hex("#" + body)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return Color{Color: c, A: alpha}, nil
}

// MustHex panics on malformed input; only for package-level tables.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha replaced by a clamped to [0, 1].
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// Fade multiplies the alpha by f.
func (c Color) Fade(f float64) Color {
	return c.WithAlpha(c.A * f)
}

// Hex returns #rrggbb, or #aarrggbb when the color is translucent.
func (c Color) Hex() string {
	h := c.Clamped().Color.Hex()
	if c.A >= 1 {
		return h
	}
	return fmt.Sprintf("#%02x%s", uint8(clamp01(c.A)*255+0.5), h[1:])
}

// Blend interpolates in Lab space, alpha linearly.
func (c Color) Blend(other Color, t float64) Color {
	t = clamp01(t)
	return Color{
		Color: c.Color.BlendLab(other.Color, t).Clamped(),
		A:     c.A + (other.A-c.A)*t,
	}
}

func (c Color) Clamped() Color {
	return Color{Color: c.Color.Clamped(), A: clamp01(c.A)}
}

// NRGBA converts to the image/color model with straight alpha.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.Color.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(c.A)*255 + 0.5)}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
