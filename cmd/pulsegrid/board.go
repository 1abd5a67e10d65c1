package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pulsegrid/internal/engine"
	"github.com/san-kum/pulsegrid/internal/export"
	"github.com/san-kum/pulsegrid/internal/layout"
	"github.com/san-kum/pulsegrid/internal/palette"
	"github.com/san-kum/pulsegrid/internal/pattern"
	"github.com/san-kum/pulsegrid/internal/storage"
	"github.com/san-kum/pulsegrid/internal/viz"
)

func boardCommand() *cobra.Command {
	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "compose and export moodboards",
	}

	createCmd := &cobra.Command{
		Use:   "create [name] [mode...]",
		Short: "compose one to four modes into a saved moodboard",
		Args:  cobra.RangeArgs(2, layout.MaxPanels+1),
		RunE:  createBoard,
	}
	createCmd.Flags().StringSliceVar(&labels, "label", nil, "panel labels, in mode order")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved moodboards",
		RunE:  listBoards,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "preview a moodboard in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  showBoard,
	}
	showCmd.Flags().Float64Var(&intensity, "intensity", pattern.DefaultIntensity, "global intensity (0.1-1.0)")

	exportCmd := &cobra.Command{
		Use:   "export [id]",
		Short: "render a moodboard to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportBoard,
	}
	addExportFlags(exportCmd)
	exportCmd.Flags().IntVar(&ticks, "ticks", 100, "ticks to advance each panel before export")
	exportCmd.Flags().Float64Var(&intensity, "intensity", pattern.DefaultIntensity, "global intensity (0.1-1.0)")

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "delete a saved moodboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}
			if err := storage.New(dataDir).DeleteMoodboard(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	boardCmd.AddCommand(createCmd, listCmd, showCmd, exportCmd, deleteCmd)
	return boardCmd
}

func createBoard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	schemes, err := cfg.Schemes()
	if err != nil {
		return err
	}

	name, modes := args[0], args[1:]
	panels := make([]layout.Panel, len(modes))
	for i, s := range modes {
		m, err := pattern.ParseMode(s)
		if err != nil {
			return err
		}
		panels[i] = layout.Panel{Mode: m, Settings: cfg.Params(m, schemes)}
		if i < len(labels) {
			panels[i].Label = labels[i]
		}
	}

	mb, err := layout.NewMoodboard(name, panels, time.Now())
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	if err := st.SaveMoodboard(mb); err != nil {
		return err
	}
	fmt.Printf("moodboard saved: %s\n", mb.ID)
	for _, l := range mb.Layouts {
		fmt.Printf("  %-16s %-14s x=%.2f y=%.2f w=%.2f h=%.2f\n",
			l.Label, l.Mode.Slug(), l.Position.X, l.Position.Y, l.Position.W, l.Position.H)
	}
	return nil
}

func listBoards(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	boards, err := storage.New(dataDir).ListMoodboards()
	if err != nil {
		return err
	}
	if len(boards) == 0 {
		fmt.Println("no moodboards found")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPANELS\tMODES\tCREATED")
	for _, mb := range boards {
		modes := make([]string, len(mb.Layouts))
		for i, l := range mb.Layouts {
			modes[i] = l.Mode.Slug()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			mb.ID, mb.Name, len(mb.Layouts), strings.Join(modes, ","), mb.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func showBoard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mb, err := storage.New(dataDir).LoadMoodboard(args[0])
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("intensity") {
		intensity = cfg.Intensity
	}

	m := viz.NewBoardModel(mb, 120, 40, intensity, cfg.Seed, zap.NewNop())
	defer m.Close()
	if err := m.Err(); err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.BoardModel); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func exportBoard(cmd *cobra.Command, args []string) error {
	if err := checkTicks(0); err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("intensity") {
		intensity = cfg.Intensity
	}
	logger, err := newLogger("")
	if err != nil {
		return err
	}
	defer logger.Sync()

	mb, err := storage.New(dataDir).LoadMoodboard(args[0])
	if err != nil {
		return err
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	w, h := f.Dimensions(outWidth, outHeight)

	frames, err := renderPanels(mb, float64(w), float64(h), cfg.Seed, logger)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = fmt.Sprintf("%s_%s.svg", mb.ID, f)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	bg := palette.Default.Background
	if len(mb.Layouts) > 0 {
		bg = mb.Layouts[0].Settings.Scheme.Background
	}
	if err := export.Moodboard(file, mb, frames, w, h, bg); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	fmt.Printf("wrote %s (%dx%d, %d panels)\n", path, w, h, len(frames))
	return nil
}

// renderPanels runs every layout on its own engine at the panel's pixel size
// so the same mode may appear twice.
func renderPanels(mb *layout.Moodboard, width, height float64, seed int64, logger *zap.Logger) ([]pattern.Frame, error) {
	frames := make([]pattern.Frame, len(mb.Layouts))
	for i, l := range mb.Layouts {
		r := l.Position.Scale(width, height)
		eng, err := engine.New(pattern.Size{Width: r.W, Height: r.H},
			engine.WithSeed(seed+int64(i)), engine.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if _, err := eng.Activate(l.Mode); err != nil {
			eng.Close()
			return nil, err
		}
		d := pattern.NewDrive(l.Settings, intensity)
		for t := 0; t < ticks; t++ {
			if _, err := eng.Tick(l.Mode, d); err != nil {
				eng.Close()
				return nil, err
			}
		}
		frames[i], err = eng.Snapshot(l.Mode, d)
		eng.Close()
		if err != nil {
			return nil, err
		}
	}
	return frames, nil
}
