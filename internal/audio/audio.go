// Package audio sonifies a running jump: pitch tracks the jumper's
// height, a low-pass filter opens with kinetic energy, and each mat
// touchdown fires a low thump.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

type Sonifier struct {
	stream *portaudio.Stream

	// Physics inputs, written from the simulation goroutine.
	mu      sync.Mutex
	height  float64
	kinetic float64
	contact bool

	dropHeight float64 // normalizes height to 0..1
	budget     float64 // normalizes kinetic energy to 0..1

	// Synthesis state, touched only by the audio callback.
	time          float64
	pitchSmooth   float64
	cutoffSmooth  float64
	filterState   [2]float64
	thumpEnv      float64
	thumpPhase    float64
	pendingThumps int

	Active bool
}

func NewSonifier(dropHeight, budget float64) *Sonifier {
	if dropHeight <= 0 {
		dropHeight = 1
	}
	if budget <= 0 {
		budget = 1
	}
	return &Sonifier{
		dropHeight:   dropHeight,
		budget:       budget,
		pitchSmooth:  220,
		cutoffSmooth: 400,
	}
}

func (s *Sonifier) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	// Output only. Duplex streams often fail on Linux when the default
	// input and output devices differ.
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}

	s.stream = stream
	s.Active = true
	return nil
}

func (s *Sonifier) Stop() {
	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
	}
	portaudio.Terminate()
	s.Active = false
}

// Update feeds the latest sample into the synth. A false-to-true
// contact transition queues a touchdown thump.
func (s *Sonifier) Update(height, kinetic float64, inContact bool) {
	s.mu.Lock()
	s.height = height
	s.kinetic = kinetic
	if inContact && !s.contact {
		s.pendingThumps++
	}
	s.contact = inContact
	s.mu.Unlock()
}

// triangle is smooth enough to filter down to a flute-like tone.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func (s *Sonifier) process(out [][]float32) {
	s.mu.Lock()
	height := s.height
	kinetic := s.kinetic
	thumps := s.pendingThumps
	s.pendingThumps = 0
	s.mu.Unlock()

	if thumps > 0 {
		s.thumpEnv = 1.0
		s.thumpPhase = 0
	}

	hNorm := math.Max(0, math.Min(height/s.dropHeight, 1.2))
	kNorm := math.Max(0, math.Min(kinetic/s.budget, 1))

	// One octave of travel: 165 Hz at the mat, 330 Hz at the apex.
	targetPitch := 165.0 * (1.0 + hNorm)
	targetCutoff := 250.0 + 2500.0*kNorm

	dt := 1.0 / float64(SampleRate)
	vol := 0.22

	for i := 0; i < len(out[0]); i++ {
		// Per-sample smoothing keeps the glide free of zipper noise.
		s.pitchSmooth += (targetPitch - s.pitchSmooth) * 0.0008
		s.cutoffSmooth += (targetCutoff - s.cutoffSmooth) * 0.0008

		oscL := triangle(s.time * s.pitchSmooth * 0.999)
		oscR := triangle(s.time * s.pitchSmooth * 1.001)

		var outL, outR float64
		outL, s.filterState[0] = lpf(oscL, s.cutoffSmooth, dt, s.filterState[0])
		outR, s.filterState[1] = lpf(oscR, s.cutoffSmooth, dt, s.filterState[1])

		thump := 0.0
		if s.thumpEnv > 0.001 {
			thump = math.Sin(2*math.Pi*55*s.thumpPhase) * s.thumpEnv
			s.thumpEnv *= 0.9997
			s.thumpPhase += dt
		}

		out[0][i] = float32((outL + thump*0.8) * vol)
		out[1][i] = float32((outR + thump*0.8) * vol)

		s.time += dt
	}
}
