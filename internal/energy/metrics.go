package energy

import (
	"math"

	"github.com/san-kum/jumpsim/internal/dynamo"
)

// Drift tracks the worst relative departure of mechanical energy from its
// initial value over a run.
type Drift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
	dyn      dynamo.System
}

func NewDrift(dyn dynamo.System) *Drift {
	return &Drift{name: "energy_drift", dyn: dyn}
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	ec, ok := d.dyn.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	e := ec.Energy(x)
	if d.samples == 0 {
		d.initial = e
	}
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(e-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *Drift) Value() float64 { return d.maxDrift }

func (d *Drift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}

// Apex records the highest point reached during a run.
type Apex struct {
	name string
	max  float64
	seen bool
}

func NewApex() *Apex {
	return &Apex{name: "apex_height"}
}

func (a *Apex) Name() string { return a.name }

func (a *Apex) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) == 0 {
		return
	}
	if !a.seen || x[0] > a.max {
		a.max = x[0]
		a.seen = true
	}
}

func (a *Apex) Value() float64 { return a.max }

func (a *Apex) Reset() {
	a.max = 0
	a.seen = false
}

// PeakCompression records the deepest mat deformation during a run. The
// compression function belongs to the model that produced the states.
type PeakCompression struct {
	name        string
	compression func(y float64) float64
	max         float64
}

func NewPeakCompression(compression func(y float64) float64) *PeakCompression {
	return &PeakCompression{name: "peak_compression", compression: compression}
}

func (p *PeakCompression) Name() string { return p.name }

func (p *PeakCompression) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) == 0 || p.compression == nil {
		return
	}
	c := p.compression(x[0])
	if c > p.max {
		p.max = c
	}
}

func (p *PeakCompression) Value() float64 { return p.max }

func (p *PeakCompression) Reset() { p.max = 0 }

// ContactFraction reports the fraction of observed samples spent on the
// mat (height below the undeformed surface).
type ContactFraction struct {
	name     string
	matDepth float64
	contact  int
	samples  int
}

func NewContactFraction(matDepth float64) *ContactFraction {
	return &ContactFraction{name: "contact_fraction", matDepth: matDepth}
}

func (c *ContactFraction) Name() string { return c.name }

func (c *ContactFraction) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) == 0 {
		return
	}
	c.samples++
	if x[0] < c.matDepth {
		c.contact++
	}
}

func (c *ContactFraction) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.contact) / float64(c.samples)
}

func (c *ContactFraction) Reset() {
	c.contact = 0
	c.samples = 0
}

// Store selects one of the three mechanical energy stores.
type Store int

const (
	StoreKinetic Store = iota
	StoreGravitational
	StoreElastic
)

func (s Store) String() string {
	switch s {
	case StoreKinetic:
		return "kinetic"
	case StoreGravitational:
		return "gravitational"
	case StoreElastic:
		return "elastic"
	}
	return "unknown"
}

// Share reports the time-averaged fraction of mechanical energy held in
// one store over a run.
type Share struct {
	name    string
	store   Store
	part    dynamo.Partitioned
	sum     float64
	samples int
}

func NewShare(part dynamo.Partitioned, store Store) *Share {
	return &Share{name: store.String() + "_share", store: store, part: part}
}

func (s *Share) Name() string { return s.name }

func (s *Share) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if s.part == nil {
		return
	}
	p := s.part.Energies(x)
	total := p.Mechanical()
	if total == 0 {
		return
	}

	var v float64
	switch s.store {
	case StoreKinetic:
		v = p.Kinetic
	case StoreGravitational:
		v = p.Gravitational
	case StoreElastic:
		v = p.Elastic
	}

	s.sum += v / total
	s.samples++
}

func (s *Share) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Share) Reset() {
	s.sum = 0
	s.samples = 0
}

// Effort reports the mean absolute push force applied over a run.
type Effort struct {
	name    string
	sum     float64
	samples int
}

func NewEffort() *Effort {
	return &Effort{name: "push_effort"}
}

func (e *Effort) Name() string { return e.name }

func (e *Effort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	for _, val := range u {
		e.sum += math.Abs(val)
	}
	e.samples++
}

func (e *Effort) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Effort) Reset() {
	e.sum = 0
	e.samples = 0
}
