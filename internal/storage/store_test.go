package storage

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/pulsegrid/internal/layout"
	"github.com/san-kum/pulsegrid/internal/pattern"
)

func board(t *testing.T, name string, at time.Time, modes ...pattern.Mode) *layout.Moodboard {
	t.Helper()
	panels := make([]layout.Panel, len(modes))
	for i, m := range modes {
		panels[i] = layout.Panel{Mode: m, Settings: pattern.DefaultParams()}
	}
	mb, err := layout.NewMoodboard(name, panels, at)
	if err != nil {
		t.Fatal(err)
	}
	return mb
}

func TestMoodboardSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	mb := board(t, "Ops Wall", time.Unix(1700000000, 0).UTC(), pattern.SignalMesh, pattern.HeatPulse, pattern.NeuroSpark)
	if err := st.SaveMoodboard(mb); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := st.LoadMoodboard(mb.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Name != "Ops Wall" || len(got.Layouts) != 3 {
		t.Errorf("unexpected board: %+v", got)
	}
	if got.Layouts[1].Mode != pattern.HeatPulse {
		t.Errorf("expected heat pulse in slot 1, got %s", got.Layouts[1].Mode)
	}
	if got.Layouts[0].Position != mb.Layouts[0].Position {
		t.Errorf("position changed: %+v", got.Layouts[0].Position)
	}
	if got.Layouts[2].Settings.Scheme.Primary.Hex() != mb.Layouts[2].Settings.Scheme.Primary.Hex() {
		t.Error("scheme color changed across save")
	}
}

func TestListMoodboardsNewestFirst(t *testing.T) {
	st := New(t.TempDir())

	boards, err := st.ListMoodboards()
	if err != nil || len(boards) != 0 {
		t.Fatalf("empty store: %v, %v", boards, err)
	}

	st.SaveMoodboard(board(t, "old", time.Unix(100, 0), pattern.SignalMesh))
	st.SaveMoodboard(board(t, "new", time.Unix(200, 0), pattern.StressWave))
	os.WriteFile(filepath.Join(st.Dir(), boardsDir, "junk.json"), []byte("{"), 0644)

	boards, err = st.ListMoodboards()
	if err != nil {
		t.Fatal(err)
	}
	if len(boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(boards))
	}
	if boards[0].Name != "new" {
		t.Errorf("expected newest first, got %s", boards[0].Name)
	}
}

func TestMoodboardErrors(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.LoadMoodboard("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.LoadMoodboard("../etc"); !errors.Is(err, ErrBadID) {
		t.Errorf("expected ErrBadID, got %v", err)
	}
	if err := st.DeleteMoodboard("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}

	mb := board(t, "gone", time.Unix(300, 0), pattern.MagneticField)
	st.SaveMoodboard(mb)
	if err := st.DeleteMoodboard(mb.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadMoodboard(mb.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("board still loadable after delete: %v", err)
	}
}

func TestTraceSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	meta := TraceMetadata{
		Mode:      "heat_pulse",
		Timestamp: time.Unix(1700000000, 0),
		Seed:      42,
		Intensity: 0.5,
		Columns:   []string{"mean_opacity", "visible_fraction"},
		Final:     map[string]float64{"mean_opacity": 0.4},
	}
	samples := []Sample{
		{Tick: 1, Phase: 0.025, Values: []float64{0.3, 1}},
		{Tick: 2, Phase: 0.05, Values: []float64{0.35, 0.9}},
	}

	id, err := st.SaveTrace(meta, samples)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	id2, err := st.SaveTrace(meta, samples)
	if err != nil {
		t.Fatal(err)
	}
	if id == id2 {
		t.Error("second trace reused the first id")
	}

	loaded, err := st.LoadTrace(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Ticks != 2 || loaded.Seed != 42 {
		t.Errorf("unexpected metadata: %+v", loaded)
	}

	got, err := st.LoadSamples(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if math.Abs(got[1].Values[0]-0.35) > 1e-6 || got[1].Tick != 2 {
		t.Errorf("sample mismatch: %+v", got[1])
	}

	list, _ := st.ListTraces()
	if len(list) != 2 {
		t.Errorf("expected 2 traces, got %d", len(list))
	}
}
