package pattern

import (
	"math"

	"github.com/san-kum/pulsegrid/internal/palette"
)

// Documented parameter ranges.
const (
	MinSpeed      = 0.1
	MaxSpeed      = 2.0
	MinBrightness = 0.1
	MaxBrightness = 1.0
	MinLineWidth  = 0.5
	MaxLineWidth  = 5.0
	MinIntensity  = 0.1
	MaxIntensity  = 1.0

	DefaultSpeed      = 0.5
	DefaultBrightness = 0.7
	DefaultLineWidth  = 1.0
	DefaultIntensity  = 0.5
)

// Params is the user-tunable configuration of one pattern mode. It is owned
// and mutated by the UI side; generators only read it.
type Params struct {
	Speed      float64        `json:"speed"`
	Brightness float64        `json:"brightness"`
	LineWidth  float64        `json:"line_width"`
	Scheme     palette.Scheme `json:"color_scheme"`
}

func DefaultParams() Params {
	return Params{
		Speed:      DefaultSpeed,
		Brightness: DefaultBrightness,
		LineWidth:  DefaultLineWidth,
		Scheme:     palette.Default,
	}
}

// Clamp returns a copy with every scalar pulled into its documented range.
func (p Params) Clamp() Params {
	p.Speed = clamp(p.Speed, MinSpeed, MaxSpeed)
	p.Brightness = clamp(p.Brightness, MinBrightness, MaxBrightness)
	p.LineWidth = clamp(p.LineWidth, MinLineWidth, MaxLineWidth)
	return p
}

// Drive is everything a tick reads from outside the generator.
type Drive struct {
	Params    Params
	Intensity float64
}

func NewDrive(p Params, intensity float64) Drive {
	return Drive{Params: p, Intensity: intensity}
}

// Clamp normalises both the params and the intensity.
func (d Drive) Clamp() Drive {
	d.Params = d.Params.Clamp()
	d.Intensity = clamp(d.Intensity, MinIntensity, MaxIntensity)
	return d
}

// Rate is the multiplier applied to every per-tick increment:
// intensity × speed.
func (d Drive) Rate() float64 {
	c := d.Clamp()
	return c.Intensity * c.Params.Speed
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
