package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/pulsegrid/internal/layout"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrBadID    = errors.New("storage: invalid id")
)

const (
	boardsDir = "moodboards"
	tracesDir = "traces"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	for _, dir := range []string{boardsDir, tracesDir} {
		if err := os.MkdirAll(filepath.Join(s.baseDir, dir), 0755); err != nil {
			return err
		}
	}
	return nil
}

func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrBadID, id)
	}
	return nil
}

func (s *Store) boardPath(id string) string {
	return filepath.Join(s.baseDir, boardsDir, id+".json")
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *Store) SaveMoodboard(mb *layout.Moodboard) error {
	if err := checkID(mb.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.baseDir, boardsDir), 0755); err != nil {
		return err
	}
	return writeJSON(s.boardPath(mb.ID), mb)
}

func (s *Store) LoadMoodboard(id string) (*layout.Moodboard, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var mb layout.Moodboard
	if err := readJSON(s.boardPath(id), &mb); err != nil {
		return nil, err
	}
	return &mb, nil
}

// ListMoodboards returns every readable board, newest first. Unreadable
// files are skipped.
func (s *Store) ListMoodboards() ([]layout.Moodboard, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, boardsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []layout.Moodboard{}, nil
		}
		return nil, err
	}

	boards := make([]layout.Moodboard, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		var mb layout.Moodboard
		if err := readJSON(filepath.Join(s.baseDir, boardsDir, entry.Name()), &mb); err != nil {
			continue
		}
		boards = append(boards, mb)
	}

	sort.Slice(boards, func(i, j int) bool {
		return boards[i].CreatedAt.After(boards[j].CreatedAt)
	})
	return boards, nil
}

func (s *Store) DeleteMoodboard(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	err := os.Remove(s.boardPath(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

type TraceMetadata struct {
	ID        string             `json:"id"`
	Mode      string             `json:"mode"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Intensity float64            `json:"intensity"`
	Columns   []string           `json:"columns"`
	Final     map[string]float64 `json:"final"`
}

// Sample is one tick of a trace; Values line up with TraceMetadata.Columns.
type Sample struct {
	Tick   int
	Phase  float64
	Values []float64
}

// SaveTrace writes metadata.json and samples.csv under a new trace dir and
// returns its ID.
func (s *Store) SaveTrace(meta TraceMetadata, samples []Sample) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.ID = fmt.Sprintf("%s_%d", meta.Mode, meta.Timestamp.Unix())
	meta.Ticks = len(samples)

	runDir := filepath.Join(s.baseDir, tracesDir, meta.ID)
	for n := 1; ; n++ {
		if _, err := os.Stat(runDir); os.IsNotExist(err) {
			break
		}
		meta.ID = fmt.Sprintf("%s_%d-%d", meta.Mode, meta.Timestamp.Unix(), n)
		runDir = filepath.Join(s.baseDir, tracesDir, meta.ID)
	}
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	header := append([]string{"tick", "phase"}, meta.Columns...)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, smp := range samples {
		row := []string{strconv.Itoa(smp.Tick), strconv.FormatFloat(smp.Phase, 'f', 6, 64)}
		for _, v := range smp.Values {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) ListTraces() ([]TraceMetadata, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, tracesDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []TraceMetadata{}, nil
		}
		return nil, err
	}

	traces := make([]TraceMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var meta TraceMetadata
		if err := readJSON(filepath.Join(s.baseDir, tracesDir, entry.Name(), "metadata.json"), &meta); err != nil {
			continue
		}
		traces = append(traces, meta)
	}
	return traces, nil
}

func (s *Store) LoadTrace(id string) (*TraceMetadata, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var meta TraceMetadata
	if err := readJSON(filepath.Join(s.baseDir, tracesDir, id, "metadata.json"), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads samples.csv back. Malformed rows are skipped.
func (s *Store) LoadSamples(id string) ([]Sample, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, tracesDir, id, "samples.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		tick, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		phase, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		smp := Sample{Tick: tick, Phase: phase, Values: make([]float64, 0, len(record)-2)}
		for _, field := range record[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			smp.Values = append(smp.Values, v)
		}
		samples = append(samples, smp)
	}
	return samples, nil
}
