package energy

import (
	"github.com/san-kum/jumpsim/internal/dynamo"
)

// Series is an ordered set of samples over one jump trajectory.
type Series struct {
	Samples []Sample
}

func (s *Series) Len() int { return len(s.Samples) }

func (s *Series) column(f func(Sample) float64) []float64 {
	vals := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		vals[i] = f(sample)
	}
	return vals
}

func (s *Series) Times() []float64  { return s.column(func(x Sample) float64 { return x.Time }) }
func (s *Series) Heights() []float64 {
	return s.column(func(x Sample) float64 { return x.Height })
}
func (s *Series) Velocities() []float64 {
	return s.column(func(x Sample) float64 { return x.Velocity })
}
func (s *Series) Compressions() []float64 {
	return s.column(func(x Sample) float64 { return x.Compression })
}
func (s *Series) Kinetic() []float64 {
	return s.column(func(x Sample) float64 { return x.Kinetic })
}
func (s *Series) Gravitational() []float64 {
	return s.column(func(x Sample) float64 { return x.Gravitational })
}
func (s *Series) Elastic() []float64 {
	return s.column(func(x Sample) float64 { return x.Elastic })
}
func (s *Series) Mechanical() []float64 {
	return s.column(func(x Sample) float64 { return x.Mechanical })
}

// FromResult converts a simulation result into a sample series. The
// compression function maps height to mat deformation for the model that
// produced the run; nil leaves compression zero.
func FromResult(r *dynamo.Result, compression func(y float64) float64) *Series {
	series := &Series{Samples: make([]Sample, 0, len(r.States))}

	for i, st := range r.States {
		s := Sample{}
		if i < len(r.Times) {
			s.Time = r.Times[i]
		}
		if len(st) > 0 {
			s.Height = st[0]
		}
		if len(st) > 1 {
			s.Velocity = st[1]
		}
		if compression != nil {
			s.Compression = compression(s.Height)
		}
		if i < len(r.Energies) {
			p := r.Energies[i]
			s.Kinetic = p.Kinetic
			s.Gravitational = p.Gravitational
			s.Elastic = p.Elastic
			s.Mechanical = p.Mechanical()
		}
		series.Samples = append(series.Samples, s)
	}

	return series
}
