// Package storage persists simulation runs under a data directory. Each
// run is a directory holding metadata.json and samples.csv with one row
// per recorded instant.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/jumpsim/internal/energy"
)

// Sample columns, in file order. The push column is appended only when
// a controller was active during the run.
var sampleHeader = []string{
	"time", "height", "velocity", "compression",
	"kinetic", "gravitational", "elastic", "mechanical",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run to disk and returns its ID. IDs carry the model name
// and a short uuid suffix so concurrent saves never collide.
func (s *Store) Save(meta RunMetadata, series *energy.Series, pushes []float64) (string, error) {
	runID := fmt.Sprintf("%s_%s", meta.Model, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := sampleHeader
	withPush := len(pushes) > 0
	if withPush {
		header = append(append([]string{}, sampleHeader...), "push")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, smp := range series.Samples {
		row := []string{
			formatFloat(smp.Time),
			formatFloat(smp.Height),
			formatFloat(smp.Velocity),
			formatFloat(smp.Compression),
			formatFloat(smp.Kinetic),
			formatFloat(smp.Gravitational),
			formatFloat(smp.Elastic),
			formatFloat(smp.Mechanical),
		}
		if withPush {
			push := 0.0
			if i < len(pushes) {
				push = pushes[i]
			}
			row = append(row, formatFloat(push))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return runID, w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns metadata for every stored run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads a stored run back into a sample series and the push
// column, which is empty for passive runs.
func (s *Store) LoadSeries(runID string) (*energy.Series, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 1 {
		return &energy.Series{}, nil, nil
	}

	withPush := len(records[0]) > len(sampleHeader)

	series := &energy.Series{Samples: make([]energy.Sample, 0, len(records)-1)}
	var pushes []float64
	if withPush {
		pushes = make([]float64, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		if len(record) < len(sampleHeader) {
			continue
		}

		vals := make([]float64, len(record))
		ok := true
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		series.Samples = append(series.Samples, energy.Sample{
			Time:          vals[0],
			Height:        vals[1],
			Velocity:      vals[2],
			Compression:   vals[3],
			Kinetic:       vals[4],
			Gravitational: vals[5],
			Elastic:       vals[6],
			Mechanical:    vals[7],
		})
		if withPush {
			pushes = append(pushes, vals[8])
		}
	}

	return series, pushes, nil
}
