// Package automation runs scripted pattern shows and parameter sweeps
// headlessly through the engine.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pulsegrid/internal/config"
	"github.com/san-kum/pulsegrid/internal/engine"
	"github.com/san-kum/pulsegrid/internal/export"
	"github.com/san-kum/pulsegrid/internal/metrics"
	"github.com/san-kum/pulsegrid/internal/palette"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

var (
	ErrEmptyShow    = errors.New("automation: show has no steps")
	ErrUnknownParam = errors.New("automation: unknown sweep parameter")
)

// Show is a scripted sequence of pattern runs.
type Show struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Seed        int64   `yaml:"seed"`
	Intensity   float64 `yaml:"intensity"`
	Steps       []Step  `yaml:"steps"`
}

// Step runs one mode for a number of ticks. Settings come from the preset,
// then from the fields Params sets. PauseTicks are spent paused after Ticks.
type Step struct {
	Mode       string                `yaml:"mode"`
	Preset     string                `yaml:"preset"`
	Params     *config.PatternConfig `yaml:"params"`
	Intensity  float64               `yaml:"intensity"`
	Ticks      int                   `yaml:"ticks"`
	PauseTicks int                   `yaml:"pause_ticks"`
	Snapshot   string                `yaml:"snapshot"`
}

type StepResult struct {
	Mode     pattern.Mode
	Ticks    int
	Phase    float64
	Metrics  map[string]float64
	Snapshot string
}

type RunOptions struct {
	Logger  *zap.Logger
	Schemes *palette.Registry
	// OutDir is where relative snapshot paths are written.
	OutDir  string
	Metrics []string
}

func LoadShow(path string) (*Show, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	show := Show{Width: config.DefaultWidth, Height: config.DefaultHeight, Seed: 1, Intensity: pattern.DefaultIntensity}
	if err := yaml.Unmarshal(data, &show); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &show, nil
}

func (st Step) drive(show *Show, schemes *palette.Registry) (pattern.Mode, pattern.Drive, error) {
	mode, err := pattern.ParseMode(st.Mode)
	if err != nil {
		return 0, pattern.Drive{}, err
	}

	pc := config.DefaultPattern()
	if st.Preset != "" {
		p, ok := config.GetPreset(mode.Slug(), st.Preset)
		if !ok {
			return 0, pattern.Drive{}, fmt.Errorf("unknown preset %q for %s", st.Preset, mode.Slug())
		}
		pc = p
	}
	if st.Params != nil {
		pc = st.Params.Over(pc)
	}

	cfg := config.DefaultConfig()
	cfg.SetPattern(mode, pc)
	cfg.Intensity = show.Intensity
	if st.Intensity > 0 {
		cfg.Intensity = st.Intensity
	}
	return mode, cfg.Drive(mode, schemes), nil
}

// RunShow executes every step on a single engine, so a mode that appears
// twice continues from where it stopped.
func RunShow(ctx context.Context, show *Show, opts RunOptions) ([]StepResult, error) {
	if len(show.Steps) == 0 {
		return nil, ErrEmptyShow
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Schemes == nil {
		opts.Schemes = palette.NewRegistry()
	}
	names := opts.Metrics
	if len(names) == 0 {
		names = []string{"mean_opacity", "phase"}
	}
	ms := make([]metrics.Metric, 0, len(names))
	for _, n := range names {
		m, err := metrics.New(n)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	rec := metrics.NewRecorder(ms...)

	eng, err := engine.New(pattern.Size{Width: show.Width, Height: show.Height},
		engine.WithSeed(show.Seed), engine.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer eng.Close()
	eng.AddObserver(rec)

	results := make([]StepResult, 0, len(show.Steps))
	for i, step := range show.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		mode, d, err := step.drive(show, opts.Schemes)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if _, err := eng.Activate(mode); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		logger.Info("show step",
			zap.String("show", show.Name),
			zap.Int("step", i+1),
			zap.String("mode", mode.Slug()),
			zap.Int("ticks", step.Ticks))

		rec.Reset()
		var f pattern.Frame
		for t := 0; t < step.Ticks; t++ {
			if f, err = eng.Tick(mode, d); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if step.PauseTicks > 0 {
			eng.SetRunning(false)
			for t := 0; t < step.PauseTicks; t++ {
				f, _ = eng.Tick(mode, d)
			}
			eng.SetRunning(true)
		}
		if step.Ticks+step.PauseTicks == 0 {
			f, _ = eng.Snapshot(mode, d)
		}

		res := StepResult{
			Mode:    mode,
			Ticks:   step.Ticks + step.PauseTicks,
			Phase:   f.Phase,
			Metrics: rec.Values(),
		}

		if step.Snapshot != "" {
			path := step.Snapshot
			if !filepath.IsAbs(path) && opts.OutDir != "" {
				path = filepath.Join(opts.OutDir, path)
			}
			if err := writeSnapshot(path, f, d.Params.Scheme.Background); err != nil {
				return results, fmt.Errorf("step %d snapshot: %w", i+1, err)
			}
			res.Snapshot = path
		}
		results = append(results, res)
	}
	return results, nil
}

func writeSnapshot(path string, f pattern.Frame, bg palette.Color) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return export.Frame(file, f, export.Options{Background: bg, Title: f.Mode.String()})
}

// Sweep runs one mode repeatedly, varying a single drive parameter between
// Min and Max.
type Sweep struct {
	Mode     pattern.Mode
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Ticks    int
	Metric   string
	Seed     int64
	Size     pattern.Size
	Base     pattern.Drive
}

type SweepResult struct {
	ParamValue float64
	Phase      float64
	Metric     float64
}

func setParam(d pattern.Drive, name string, v float64) (pattern.Drive, error) {
	switch name {
	case "speed":
		d.Params.Speed = v
	case "brightness":
		d.Params.Brightness = v
	case "line_width":
		d.Params.LineWidth = v
	case "intensity":
		d.Intensity = v
	default:
		return d, fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return d, nil
}

// RunSweep reseeds a fresh engine for every value so runs are comparable.
func RunSweep(ctx context.Context, sw *Sweep) ([]SweepResult, error) {
	if sw.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step, got %d", sw.NumSteps)
	}
	if _, err := setParam(sw.Base, sw.Param, 0); err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sw.NumSteps)
	step := 0.0
	if sw.NumSteps > 1 {
		step = (sw.Max - sw.Min) / float64(sw.NumSteps-1)
	}

	for i := 0; i < sw.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		val := sw.Min + float64(i)*step
		d, _ := setParam(sw.Base, sw.Param, val)

		m, err := metrics.New(sw.Metric)
		if err != nil {
			return nil, err
		}
		eng, err := engine.New(sw.Size, engine.WithSeed(sw.Seed))
		if err != nil {
			return nil, err
		}
		eng.AddObserver(metrics.NewRecorder(m))
		if _, err := eng.Activate(sw.Mode); err != nil {
			return nil, err
		}

		var f pattern.Frame
		for t := 0; t < sw.Ticks; t++ {
			f, _ = eng.Tick(sw.Mode, d)
		}
		eng.Close()

		results = append(results, SweepResult{ParamValue: val, Phase: f.Phase, Metric: m.Value()})
	}
	return results, nil
}
