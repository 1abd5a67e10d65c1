package automation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/san-kum/pulsegrid/internal/engine"
	"github.com/san-kum/pulsegrid/internal/metrics"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

var ErrNoRuns = errors.New("automation: ensemble needs at least one run")

// Ensemble runs one mode under consecutive seeds concurrently. Only the
// pool-backed modes differ between seeds.
type Ensemble struct {
	Mode      pattern.Mode
	Size      pattern.Size
	Drive     pattern.Drive
	Ticks     int
	NumRuns   int
	SeedStart int64
	Metrics   []string
}

type EnsembleResult struct {
	Seed    int64
	Phase   float64
	Metrics map[string]float64
}

func (e *Ensemble) Run(ctx context.Context) ([]EnsembleResult, error) {
	if e.NumRuns < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoRuns, e.NumRuns)
	}
	results := make([]EnsembleResult, e.NumRuns)
	errs := make([]error, e.NumRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.NumRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = e.runOne(ctx, e.SeedStart+int64(idx))
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, seed int64) (EnsembleResult, error) {
	names := e.Metrics
	if len(names) == 0 {
		names = []string{"mean_opacity"}
	}
	ms := make([]metrics.Metric, 0, len(names))
	for _, n := range names {
		m, err := metrics.New(n)
		if err != nil {
			return EnsembleResult{}, err
		}
		ms = append(ms, m)
	}

	eng, err := engine.New(e.Size, engine.WithSeed(seed))
	if err != nil {
		return EnsembleResult{}, err
	}
	defer eng.Close()
	rec := metrics.NewRecorder(ms...)
	eng.AddObserver(rec)
	if _, err := eng.Activate(e.Mode); err != nil {
		return EnsembleResult{}, err
	}
	rec.Reset()

	var f pattern.Frame
	for t := 0; t < e.Ticks; t++ {
		if err := ctx.Err(); err != nil {
			return EnsembleResult{}, err
		}
		if f, err = eng.Tick(e.Mode, e.Drive); err != nil {
			return EnsembleResult{}, err
		}
	}
	return EnsembleResult{Seed: seed, Phase: f.Phase, Metrics: rec.Values()}, nil
}
