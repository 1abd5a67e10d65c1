package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/pulsegrid/internal/config"
	"github.com/san-kum/pulsegrid/internal/export"
	"github.com/san-kum/pulsegrid/internal/palette"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

const defaultConfigFile = "pulsegrid.yaml"

var defaultMetrics = []string{"mean_opacity", "phase"}

var (
	dataDir    string
	configFile string
	verbose    bool
	seed       int64
	intensity  float64
	speed      float64
	brightness float64
	lineWidth  float64
	scheme     string
	preset     string
	ticks      int
	// Presentation countdown in seconds
	presentSeconds int
	// Export
	format    string
	outPath   string
	outWidth  int
	outHeight int
	// Instagram story placeholder
	storyOverlay   bool
	overlayOpacity float64
	// Trace, sweep and show. Flag defaults are shared so they must agree
	// across commands.
	metricNames []string
	saveTrace   bool
	// Board
	labels []string
	// Sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	numRuns    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "pulsegrid",
		Short:        "procedural pattern engine",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile, "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed for entity pools (default from config)")

	addDriveFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&intensity, "intensity", pattern.DefaultIntensity, "global intensity (0.1-1.0)")
		cmd.Flags().Float64Var(&speed, "speed", pattern.DefaultSpeed, "pattern speed (0.1-2.0)")
		cmd.Flags().Float64Var(&brightness, "brightness", pattern.DefaultBrightness, "pattern brightness (0.1-1.0)")
		cmd.Flags().Float64Var(&lineWidth, "line-width", pattern.DefaultLineWidth, "stroke width (0.5-5.0)")
		cmd.Flags().StringVar(&scheme, "scheme", "", "color scheme name")
		cmd.Flags().StringVar(&preset, "preset", "", "use preset settings")
	}
	addDriveFlags(rootCmd)
	rootCmd.Flags().IntVar(&presentSeconds, "duration", 0, "presentation countdown in seconds (60-3600)")

	liveCmd := &cobra.Command{
		Use:   "live [mode]",
		Short: "live terminal preview",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addDriveFlags(liveCmd)
	liveCmd.Flags().IntVar(&presentSeconds, "duration", 0, "presentation countdown in seconds (60-3600)")

	modesCmd := &cobra.Command{
		Use:   "modes",
		Short: "list pattern modes",
		RunE:  listModes,
	}

	schemesCmd := &cobra.Command{
		Use:   "schemes",
		Short: "list color schemes",
		RunE:  listSchemes,
	}

	schemeAddCmd := &cobra.Command{
		Use:   "add [name] [primary] [secondary] [accent] [background]",
		Short: "save a custom color scheme",
		Args:  cobra.ExactArgs(5),
		RunE:  addScheme,
	}
	schemeDeleteCmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "remove a custom color scheme",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteScheme,
	}
	schemeCopyCmd := &cobra.Command{
		Use:   "copy [name]",
		Short: "duplicate a color scheme as \"<name> Copy\"",
		Args:  cobra.ExactArgs(1),
		RunE:  copyScheme,
	}
	schemesCmd.AddCommand(schemeAddCmd, schemeDeleteCmd, schemeCopyCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [mode]",
		Short: "render a frame to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	addDriveFlags(snapshotCmd)
	addExportFlags(snapshotCmd)
	snapshotCmd.Flags().BoolVar(&storyOverlay, "story-overlay", false, "add a story text placeholder (instagram format)")
	snapshotCmd.Flags().Float64Var(&overlayOpacity, "overlay-opacity", export.DefaultOverlayOpacity, "story overlay opacity (0.2-0.8)")
	snapshotCmd.Flags().IntVar(&ticks, "ticks", 100, "ticks to advance before the snapshot")

	traceCmd := &cobra.Command{
		Use:   "trace [mode]",
		Short: "plot frame metrics over ticks",
		Args:  cobra.ExactArgs(1),
		RunE:  trace,
	}
	addDriveFlags(traceCmd)
	traceCmd.Flags().IntVar(&ticks, "ticks", 100, "ticks to run")
	traceCmd.Flags().StringSliceVar(&metricNames, "metric", defaultMetrics, "metrics to record")
	traceCmd.Flags().BoolVar(&saveTrace, "save", false, "store the trace in the data directory")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved traces",
		RunE:  listTraces,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [trace_id]",
		Short: "plot a saved trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotTrace,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [mode]",
		Short: "vary one parameter and compare a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  sweep,
	}
	addDriveFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "speed", "speed, brightness, line_width or intensity")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")
	sweepCmd.Flags().IntVar(&ticks, "ticks", 100, "ticks per value")
	sweepCmd.Flags().StringSliceVar(&metricNames, "metric", defaultMetrics, "metric to compare (first is used)")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [mode]",
		Short: "run a mode under consecutive seeds in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  ensemble,
	}
	addDriveFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&ticks, "ticks", 100, "ticks per run")
	ensembleCmd.Flags().StringSliceVar(&metricNames, "metric", defaultMetrics, "metrics to report")

	showCmd := &cobra.Command{
		Use:   "show [file.yaml]",
		Short: "run a scripted show headlessly",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	showCmd.Flags().StringVarP(&outPath, "out", "o", "", "directory for relative snapshot paths")
	showCmd.Flags().StringSliceVar(&metricNames, "metric", defaultMetrics, "metrics to report per step")

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list available presets for a mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := pattern.ParseMode(args[0])
			if err != nil {
				return err
			}
			presets := config.ListPresets(m.Slug())
			if len(presets) == 0 {
				fmt.Printf("no presets for mode: %s\n", m.Slug())
				return nil
			}
			fmt.Printf("presets for %s:\n", m.Slug())
			for _, p := range presets {
				pc, _ := config.GetPreset(m.Slug(), p)
				fmt.Printf("  %-12s speed %.1f  brightness %.1f  width %.1f  %s\n", p, pc.Speed, pc.Brightness, pc.LineWidth, pc.ColorScheme)
			}
			return nil
		},
	}

	favoriteCmd := &cobra.Command{
		Use:   "favorite [mode]",
		Short: "toggle a mode in favorites",
		Args:  cobra.ExactArgs(1),
		RunE:  toggleFavorite,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configFile); err == nil {
				return fmt.Errorf("%s already exists", configFile)
			}
			if err := config.Save(configFile, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", configFile)
			return nil
		},
	})

	rootCmd.AddCommand(liveCmd, modesCmd, schemesCmd, snapshotCmd, traceCmd, runsCmd, plotCmd,
		sweepCmd, ensembleCmd, showCmd, presetsCmd, favoriteCmd, configCmd, boardCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&format, "format", "square", "square, instagram, landscape or custom")
	cmd.Flags().IntVar(&outWidth, "width", 0, "custom format width")
	cmd.Flags().IntVar(&outHeight, "height", 0, "custom format height")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <name>.svg)")
}

// newLogger builds a development logger with --verbose, otherwise a
// production logger at warn level. A non-empty path redirects output there.
func newLogger(path string) (*zap.Logger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
	return cfg.Build()
}

// loadConfig reads the config file when present. A missing default file is
// not an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
			cfg = config.DefaultConfig()
		} else {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

// applyDriveFlags lays preset and explicitly set flags over the config
// settings of m.
func applyDriveFlags(cmd *cobra.Command, cfg *config.Config, m pattern.Mode) error {
	pc := cfg.Pattern(m)
	if preset != "" {
		p, ok := config.GetPreset(m.Slug(), preset)
		if !ok {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(m.Slug()))
		}
		pc = p
	}
	if cmd.Flags().Changed("speed") {
		pc.Speed = speed
	}
	if cmd.Flags().Changed("brightness") {
		pc.Brightness = brightness
	}
	if cmd.Flags().Changed("line-width") {
		pc.LineWidth = lineWidth
	}
	if cmd.Flags().Changed("scheme") {
		pc.ColorScheme = scheme
	}
	if cmd.Flags().Changed("intensity") {
		cfg.Intensity = intensity
	}
	cfg.SetPattern(m, pc)
	return nil
}

func modeArg(args []string, cfg *config.Config) (pattern.Mode, error) {
	if len(args) == 0 {
		return cfg.StartMode(), nil
	}
	return pattern.ParseMode(args[0])
}

func schemesFor(cfg *config.Config) (*palette.Registry, error) {
	reg, err := cfg.Schemes()
	if err != nil {
		return nil, err
	}
	if scheme != "" {
		if _, err := reg.Get(scheme); err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, reg.Names())
		}
	}
	return reg, nil
}

func saveConfig(cfg *config.Config) error {
	if dir := filepath.Dir(configFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return config.Save(configFile, cfg)
}
