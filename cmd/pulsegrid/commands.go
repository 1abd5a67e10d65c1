package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pulsegrid/internal/automation"
	"github.com/san-kum/pulsegrid/internal/config"
	"github.com/san-kum/pulsegrid/internal/engine"
	"github.com/san-kum/pulsegrid/internal/export"
	"github.com/san-kum/pulsegrid/internal/metrics"
	"github.com/san-kum/pulsegrid/internal/palette"
	"github.com/san-kum/pulsegrid/internal/pattern"
	"github.com/san-kum/pulsegrid/internal/storage"
	"github.com/san-kum/pulsegrid/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mode, err := modeArg(args, cfg)
	if err != nil {
		return err
	}
	if err := applyDriveFlags(cmd, cfg, mode); err != nil {
		return err
	}
	schemes, err := schemesFor(cfg)
	if err != nil {
		return err
	}

	// Log lines would tear the alt screen, so the live view logs to a file.
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	logger, err := newLogger(filepath.Join(dataDir, "pulsegrid.log"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	eng, err := engine.New(cfg.Size(), engine.WithSeed(cfg.Seed), engine.WithLogger(logger))
	if err != nil {
		return err
	}
	defer eng.Close()

	opts := viz.LiveOptions{SnapshotDir: filepath.Join(dataDir, "snapshots")}
	if cmd.Flags().Changed("duration") {
		cfg.Presentation.DurationSeconds = presentSeconds
		opts.Presentation = cfg.Presentation.Duration()
	}

	m := viz.NewModel(eng, cfg, schemes, mode, opts)
	if err := m.Err(); err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func listModes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tNAME\tINTERVAL\tPHASE STEP\tFAV\tDESCRIPTION")
	for _, m := range pattern.Modes() {
		fav := ""
		if cfg.IsFavorite(m) {
			fav = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%.3f\t%s\t%s\n",
			m.Slug(), m.String(), m.TickInterval(), m.PhaseStep(), fav, m.Description())
	}
	return w.Flush()
}

func listSchemes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := cfg.Schemes()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRIMARY\tSECONDARY\tACCENT\tBACKGROUND")
	for _, s := range reg.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Name, s.Primary.Hex(), s.Secondary.Hex(), s.Accent.Hex(), s.Background.Hex())
	}
	return w.Flush()
}

func addScheme(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc := config.SchemeConfig{Name: args[0], Primary: args[1], Secondary: args[2], Accent: args[3], Background: args[4]}
	if err := cfg.AddScheme(sc); err != nil {
		return err
	}
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("added scheme %s (%s)\n", sc.Name, palette.Slug(sc.Name))
	return nil
}

func deleteScheme(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RemoveScheme(args[0]); err != nil {
		return err
	}
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("removed scheme %s\n", args[0])
	return nil
}

func copyScheme(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := cfg.DuplicateScheme(args[0])
	if err != nil {
		return err
	}
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("added scheme %s (%s)\n", sc.Name, palette.Slug(sc.Name))
	return nil
}

func toggleFavorite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := pattern.ParseMode(args[0])
	if err != nil {
		return err
	}
	on := cfg.ToggleFavorite(m)
	if err := saveConfig(cfg); err != nil {
		return err
	}
	if on {
		fmt.Printf("%s added to favorites\n", m.Slug())
	} else {
		fmt.Printf("%s removed from favorites\n", m.Slug())
	}
	return nil
}

var (
	errTicks         = errors.New("--ticks out of range")
	errOverlayFormat = errors.New("--story-overlay needs --format instagram")
)

// checkTicks rejects tick counts below least before anything is allocated.
func checkTicks(least int) error {
	if ticks < least {
		return fmt.Errorf("%w: %d (minimum %d)", errTicks, ticks, least)
	}
	return nil
}

// headless sets up config, drive and a logger for the non-interactive
// commands.
func headless(cmd *cobra.Command, modeName string) (*config.Config, pattern.Mode, pattern.Drive, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, 0, pattern.Drive{}, nil, err
	}
	mode, err := pattern.ParseMode(modeName)
	if err != nil {
		return nil, 0, pattern.Drive{}, nil, err
	}
	if err := applyDriveFlags(cmd, cfg, mode); err != nil {
		return nil, 0, pattern.Drive{}, nil, err
	}
	schemes, err := schemesFor(cfg)
	if err != nil {
		return nil, 0, pattern.Drive{}, nil, err
	}
	logger, err := newLogger("")
	if err != nil {
		return nil, 0, pattern.Drive{}, nil, err
	}
	return cfg, mode, cfg.Drive(mode, schemes), logger, nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	if err := checkTicks(0); err != nil {
		return err
	}
	cfg, mode, d, logger, err := headless(cmd, args[0])
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	if storyOverlay && f != export.Instagram {
		return fmt.Errorf("%w, got %s", errOverlayFormat, f)
	}
	w, h := f.Dimensions(outWidth, outHeight)

	eng, err := engine.New(pattern.Size{Width: float64(w), Height: float64(h)},
		engine.WithSeed(cfg.Seed), engine.WithLogger(logger))
	if err != nil {
		return err
	}
	defer eng.Close()
	if _, err := eng.Activate(mode); err != nil {
		return err
	}
	for i := 0; i < ticks; i++ {
		if _, err := eng.Tick(mode, d); err != nil {
			return err
		}
	}
	frame, err := eng.Snapshot(mode, d)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = fmt.Sprintf("%s_%s.svg", mode.Slug(), f)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	opts := export.Options{Background: d.Params.Scheme.Background, Title: mode.String()}
	if storyOverlay {
		opts.Overlay = export.NewStoryOverlay(overlayOpacity)
	}
	if err := export.Frame(file, frame, opts); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	fmt.Printf("wrote %s (%dx%d, %d primitives, phase %.3f)\n", path, w, h, frame.Len(), frame.Phase)
	return nil
}

func trace(cmd *cobra.Command, args []string) error {
	if err := checkTicks(1); err != nil {
		return err
	}
	cfg, mode, d, logger, err := headless(cmd, args[0])
	if err != nil {
		return err
	}
	defer logger.Sync()

	ms := make([]metrics.Metric, 0, len(metricNames))
	for _, n := range metricNames {
		m, err := metrics.New(n)
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(metrics.Names(), ", "))
		}
		ms = append(ms, m)
	}

	eng, err := engine.New(cfg.Size(), engine.WithSeed(cfg.Seed), engine.WithLogger(logger))
	if err != nil {
		return err
	}
	defer eng.Close()
	rec := metrics.NewRecorder(ms...)
	eng.AddObserver(rec)
	if _, err := eng.Activate(mode); err != nil {
		return err
	}
	rec.Reset()

	samples := make([]storage.Sample, 0, ticks)
	series := make([][]float64, len(ms))
	for i := 0; i < ticks; i++ {
		f, err := eng.Tick(mode, d)
		if err != nil {
			return err
		}
		last := rec.Last()
		samples = append(samples, storage.Sample{Tick: i + 1, Phase: f.Phase, Values: last})
		for j, v := range last {
			series[j] = append(series[j], v)
		}
	}

	for j, m := range ms {
		fmt.Println(asciigraph.Plot(series[j],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s: %s (mean %.4f)", mode.Slug(), m.Name(), m.Value()))))
		fmt.Println()
	}

	if !saveTrace {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.SaveTrace(storage.TraceMetadata{
		Mode:      mode.Slug(),
		Seed:      cfg.Seed,
		Ticks:     ticks,
		Intensity: d.Intensity,
		Columns:   metricNames,
		Final:     rec.Values(),
	}, samples)
	if err != nil {
		return err
	}
	fmt.Printf("trace saved: %s\n", id)
	return nil
}

func listTraces(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	traces, err := storage.New(dataDir).ListTraces()
	if err != nil {
		return err
	}
	if len(traces) == 0 {
		fmt.Println("no traces found")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTICKS\tSEED\tMETRICS\tTIMESTAMP")
	for _, t := range traces {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			t.ID, t.Mode, t.Ticks, t.Seed, strings.Join(t.Columns, ","), t.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotTrace(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	st := storage.New(dataDir)
	meta, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("trace %s has no samples", args[0])
	}
	for j, col := range meta.Columns {
		data := make([]float64, 0, len(samples))
		for _, s := range samples {
			if j < len(s.Values) {
				data = append(data, s.Values[j])
			}
		}
		if len(data) == 0 {
			continue
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s: %s", meta.ID, col))))
		fmt.Println()
	}
	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	if err := checkTicks(1); err != nil {
		return err
	}
	cfg, mode, d, logger, err := headless(cmd, args[0])
	if err != nil {
		return err
	}
	defer logger.Sync()

	metric := "mean_opacity"
	if len(metricNames) > 0 {
		metric = metricNames[0]
	}
	results, err := automation.RunSweep(cmd.Context(), &automation.Sweep{
		Mode:     mode,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Ticks:    ticks,
		Metric:   metric,
		Seed:     cfg.Seed,
		Size:     cfg.Size(),
		Base:     d,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPHASE\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(metric))
	data := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\n", r.ParamValue, r.Phase, r.Metric)
		data[i] = r.Metric
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(data) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", metric, sweepParam))))
	}
	return nil
}

func ensemble(cmd *cobra.Command, args []string) error {
	if err := checkTicks(1); err != nil {
		return err
	}
	cfg, mode, d, logger, err := headless(cmd, args[0])
	if err != nil {
		return err
	}
	defer logger.Sync()

	e := &automation.Ensemble{
		Mode:      mode,
		Size:      cfg.Size(),
		Drive:     d,
		Ticks:     ticks,
		NumRuns:   numRuns,
		SeedStart: cfg.Seed,
		Metrics:   metricNames,
	}
	start := time.Now()
	results, err := e.Run(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("ensemble finished",
		zap.String("mode", mode.Slug()),
		zap.Int("runs", numRuns),
		zap.Duration("elapsed", time.Since(start)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tPHASE\tMETRICS")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%s\n", r.Seed, r.Phase, formatValues(r.Metrics))
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	schemes, err := cfg.Schemes()
	if err != nil {
		return err
	}
	show, err := automation.LoadShow(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger("")
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunShow(ctx, show, automation.RunOptions{
		Logger:  logger,
		Schemes: schemes,
		OutDir:  outPath,
		Metrics: metricNames,
	})
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODE\tTICKS\tPHASE\tMETRICS\tSNAPSHOT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%s\t%s\n", i+1, r.Mode.Slug(), r.Ticks, r.Phase, formatValues(r.Metrics), r.Snapshot)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func formatValues(vals map[string]float64) string {
	parts := make([]string, 0, len(vals))
	for _, n := range metrics.Names() {
		if v, ok := vals[n]; ok {
			parts = append(parts, fmt.Sprintf("%s=%.3f", n, v))
		}
	}
	return strings.Join(parts, " ")
}
