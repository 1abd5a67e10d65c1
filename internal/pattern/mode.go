package pattern

import (
	"fmt"
	"strings"
	"time"
)

type Mode int

const (
	SignalMesh Mode = iota
	MagneticField
	HeatPulse
	StressWave
	NeuroSpark
)

var modeNames = [...]string{
	SignalMesh:    "Signal Mesh",
	MagneticField: "Magnetic Field",
	HeatPulse:     "Heat Pulse",
	StressWave:    "Stress Wave",
	NeuroSpark:    "Neuro Spark",
}

var modeDescriptions = [...]string{
	SignalMesh:    "Pulsing grid of intersecting signal lines",
	MagneticField: "Particles bent by a synthetic central field",
	HeatPulse:     "Thermal rings breathing out from the centre",
	StressWave:    "Scanlines rippling under structural load",
	NeuroSpark:    "Random neural graph firing along its edges",
}

// Modes returns all modes in display order.
func Modes() []Mode {
	return []Mode{SignalMesh, MagneticField, HeatPulse, StressWave, NeuroSpark}
}

func (m Mode) Valid() bool { return m >= SignalMesh && m <= NeuroSpark }

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Slug is the snake_case key used in config files and on the command line.
func (m Mode) Slug() string {
	return strings.ReplaceAll(strings.ToLower(m.String()), " ", "_")
}

func (m Mode) Description() string {
	if !m.Valid() {
		return ""
	}
	return modeDescriptions[m]
}

// TickInterval is the fixed wall-clock period of the mode's frame clock.
func (m Mode) TickInterval() time.Duration {
	switch m {
	case HeatPulse, NeuroSpark:
		return 100 * time.Millisecond
	default:
		return 50 * time.Millisecond
	}
}

// PhaseStep is the phase added per running tick at unit rate.
func (m Mode) PhaseStep() float64 {
	switch m {
	case MagneticField, HeatPulse:
		return 0.05
	default:
		return 0.1
	}
}

// ParseMode accepts a slug ("heat_pulse"), a display name ("Heat Pulse") or
// a dashed form ("heat-pulse").
func ParseMode(s string) (Mode, error) {
	key := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range Modes() {
		if m.Slug() == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.Slug()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
