package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pulsegrid/internal/palette"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

const (
	DefaultWidth    = 800.0
	DefaultHeight   = 600.0
	DefaultDataDir  = ".pulsegrid"
	DefaultMode     = "signal_mesh"
	MinPresentation = 60
	MaxPresentation = 3600
)

var (
	ErrBadScheme     = errors.New("config: invalid color scheme")
	ErrBuiltinScheme = errors.New("config: built-in color schemes cannot be removed")
)

type Config struct {
	Mode         string                   `yaml:"mode"`
	Intensity    float64                  `yaml:"intensity"`
	Running      bool                     `yaml:"running"`
	Width        float64                  `yaml:"width"`
	Height       float64                  `yaml:"height"`
	Seed         int64                    `yaml:"seed"`
	DataDir      string                   `yaml:"data_dir"`
	Patterns     map[string]PatternConfig `yaml:"patterns"`
	ColorSchemes []SchemeConfig           `yaml:"color_schemes,omitempty"`
	Favorites    []string                 `yaml:"favorites,omitempty"`
	Presentation PresentationConfig       `yaml:"presentation"`
}

// PatternConfig is the persisted form of pattern.Params; the scheme is kept
// by name.
type PatternConfig struct {
	Speed       float64 `yaml:"speed"`
	Brightness  float64 `yaml:"brightness"`
	LineWidth   float64 `yaml:"line_width"`
	ColorScheme string  `yaml:"color_scheme"`
}

type SchemeConfig struct {
	Name       string `yaml:"name"`
	Primary    string `yaml:"primary"`
	Secondary  string `yaml:"secondary"`
	Accent     string `yaml:"accent"`
	Background string `yaml:"background"`
}

type PresentationConfig struct {
	DurationSeconds int  `yaml:"duration_seconds"`
	SafeScreenLock  bool `yaml:"safe_screen_lock"`
}

// Duration is the countdown length, clamped to [60s, 1h].
func (p PresentationConfig) Duration() time.Duration {
	s := p.DurationSeconds
	if s < MinPresentation {
		s = MinPresentation
	}
	if s > MaxPresentation {
		s = MaxPresentation
	}
	return time.Duration(s) * time.Second
}

func DefaultPattern() PatternConfig {
	return PatternConfig{
		Speed:       pattern.DefaultSpeed,
		Brightness:  pattern.DefaultBrightness,
		LineWidth:   pattern.DefaultLineWidth,
		ColorScheme: palette.Default.Name,
	}
}

func DefaultConfig() *Config {
	patterns := make(map[string]PatternConfig, len(pattern.Modes()))
	for _, m := range pattern.Modes() {
		patterns[m.Slug()] = DefaultPattern()
	}
	return &Config{
		Mode:      DefaultMode,
		Intensity: pattern.DefaultIntensity,
		Running:   true,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Seed:      1,
		DataDir:   DefaultDataDir,
		Patterns:  patterns,
		Presentation: PresentationConfig{
			DurationSeconds: MinPresentation,
			SafeScreenLock:  true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for mode, pc := range cfg.Patterns {
		cfg.Patterns[mode] = pc.WithDefaults()
	}
	return cfg, nil
}

// WithDefaults fills fields left unset in a partial yaml entry from
// DefaultPattern.
func (pc PatternConfig) WithDefaults() PatternConfig {
	return pc.Over(DefaultPattern())
}

// Over returns pc with its zero fields taken from base.
func (pc PatternConfig) Over(base PatternConfig) PatternConfig {
	if pc.Speed == 0 {
		pc.Speed = base.Speed
	}
	if pc.Brightness == 0 {
		pc.Brightness = base.Brightness
	}
	if pc.LineWidth == 0 {
		pc.LineWidth = base.LineWidth
	}
	if pc.ColorScheme == "" {
		pc.ColorScheme = base.ColorScheme
	}
	return pc
}

func (c *Config) Size() pattern.Size {
	return pattern.Size{Width: c.Width, Height: c.Height}
}

// StartMode resolves the configured mode, falling back to Signal Mesh.
func (c *Config) StartMode() pattern.Mode {
	m, err := pattern.ParseMode(c.Mode)
	if err != nil {
		return pattern.SignalMesh
	}
	return m
}

// Schemes returns a registry holding the built-ins plus every custom scheme.
func (c *Config) Schemes() (*palette.Registry, error) {
	reg := palette.NewRegistry()
	for _, sc := range c.ColorSchemes {
		s, err := sc.Scheme()
		if err != nil {
			return nil, err
		}
		if err := reg.Add(s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (sc SchemeConfig) Scheme() (palette.Scheme, error) {
	if sc.Name == "" {
		return palette.Scheme{}, fmt.Errorf("%w: missing name", ErrBadScheme)
	}
	s, err := palette.NewScheme(sc.Name, sc.Primary, sc.Secondary, sc.Accent, sc.Background)
	if err != nil {
		return palette.Scheme{}, fmt.Errorf("%w %q: %v", ErrBadScheme, sc.Name, err)
	}
	return s, nil
}

// AddScheme validates and appends a custom scheme.
func (c *Config) AddScheme(sc SchemeConfig) error {
	reg, err := c.Schemes()
	if err != nil {
		return err
	}
	s, err := sc.Scheme()
	if err != nil {
		return err
	}
	if err := reg.Add(s); err != nil {
		return err
	}
	c.ColorSchemes = append(c.ColorSchemes, sc)
	return nil
}

// RemoveScheme deletes a custom scheme by name or ID. Pattern settings that
// used it fall back to the default scheme.
func (c *Config) RemoveScheme(name string) error {
	id := palette.Slug(name)
	for _, b := range palette.Builtins() {
		if b.ID == id {
			return fmt.Errorf("%w: %s", ErrBuiltinScheme, b.Name)
		}
	}
	for i, sc := range c.ColorSchemes {
		if palette.Slug(sc.Name) != id {
			continue
		}
		c.ColorSchemes = append(c.ColorSchemes[:i], c.ColorSchemes[i+1:]...)
		for mode, pc := range c.Patterns {
			if palette.Slug(pc.ColorScheme) == id {
				pc.ColorScheme = palette.Default.Name
				c.Patterns[mode] = pc
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s", palette.ErrUnknownScheme, name)
}

// DuplicateScheme stores a copy of any scheme, built-in or custom, as
// "<name> Copy" (numbered when taken) and returns it.
func (c *Config) DuplicateScheme(name string) (SchemeConfig, error) {
	reg, err := c.Schemes()
	if err != nil {
		return SchemeConfig{}, err
	}
	src, err := reg.Get(name)
	if err != nil {
		return SchemeConfig{}, err
	}
	copyName := src.Name + " Copy"
	for n := 2; ; n++ {
		if _, err := reg.Get(copyName); err != nil {
			break
		}
		copyName = fmt.Sprintf("%s Copy %d", src.Name, n)
	}
	sc := SchemeConfig{
		Name:       copyName,
		Primary:    src.Primary.Hex(),
		Secondary:  src.Secondary.Hex(),
		Accent:     src.Accent.Hex(),
		Background: src.Background.Hex(),
	}
	if err := c.AddScheme(sc); err != nil {
		return SchemeConfig{}, err
	}
	return sc, nil
}

func (c *Config) Pattern(m pattern.Mode) PatternConfig {
	if pc, ok := c.Patterns[m.Slug()]; ok {
		return pc
	}
	return DefaultPattern()
}

func (c *Config) SetPattern(m pattern.Mode, pc PatternConfig) {
	if c.Patterns == nil {
		c.Patterns = make(map[string]PatternConfig)
	}
	c.Patterns[m.Slug()] = pc
}

// Params resolves the settings of m into clamped pattern params. Unknown
// scheme names fall back to the default scheme.
func (c *Config) Params(m pattern.Mode, schemes *palette.Registry) pattern.Params {
	pc := c.Pattern(m)
	scheme := palette.Default
	if schemes != nil {
		if s, err := schemes.Get(pc.ColorScheme); err == nil {
			scheme = s
		}
	}
	return pattern.Params{
		Speed:      pc.Speed,
		Brightness: pc.Brightness,
		LineWidth:  pc.LineWidth,
		Scheme:     scheme,
	}.Clamp()
}

func (c *Config) Drive(m pattern.Mode, schemes *palette.Registry) pattern.Drive {
	return pattern.NewDrive(c.Params(m, schemes), c.Intensity).Clamp()
}

// FromParams is the inverse of Params.
func FromParams(p pattern.Params) PatternConfig {
	return PatternConfig{
		Speed:       p.Speed,
		Brightness:  p.Brightness,
		LineWidth:   p.LineWidth,
		ColorScheme: p.Scheme.Name,
	}
}

func (c *Config) IsFavorite(m pattern.Mode) bool {
	for _, f := range c.Favorites {
		if f == m.Slug() {
			return true
		}
	}
	return false
}

// ToggleFavorite flips m in the favorites list and reports whether it is now
// a favorite.
func (c *Config) ToggleFavorite(m pattern.Mode) bool {
	for i, f := range c.Favorites {
		if f == m.Slug() {
			c.Favorites = append(c.Favorites[:i], c.Favorites[i+1:]...)
			return false
		}
	}
	c.Favorites = append(c.Favorites, m.Slug())
	return true
}
