package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/san-kum/jumpsim/internal/energy"
)

// ExportData is the JSON export shape for one run.
type ExportData struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Samples    []energy.Sample    `json:"samples"`
	Pushes     []float64          `json:"pushes,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, series *energy.Series, pushes []float64) error {
	data := ExportData{
		ID:         meta.ID,
		Model:      meta.Model,
		Integrator: meta.Integrator,
		Controller: meta.Controller,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      series.Len(),
		Samples:    series.Samples,
		Pushes:     pushes,
		Metrics:    meta.Metrics,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes a run's samples in the stored column layout.
func ExportCSV(w io.Writer, series *energy.Series, pushes []float64) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := sampleHeader
	withPush := len(pushes) > 0
	if withPush {
		header = append(append([]string{}, sampleHeader...), "push")
	}
	if err := cw.Write(header); err != nil {
		return err
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
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
