package analysis

import (
	"github.com/san-kum/jumpsim/internal/energy"
)

// ApexEvent is a local maximum of the height signal.
type ApexEvent struct {
	Time   float64
	Height float64
}

// BounceStats summarizes the rhythm of a jump trajectory.
type BounceStats struct {
	Apexes        []ApexEvent
	MeanPeriod    float64 // seconds between consecutive apexes
	MeanApex      float64 // meters
	AirFraction   float64 // share of samples above the mat surface
	PeakSpeed     float64 // m/s, unsigned
	LowestHeight  float64
	HighestHeight float64
}

// Apexes finds local maxima of the height signal. Flat tops (equal
// neighbors from numerical snapping) count once, at their first sample.
func Apexes(times, heights []float64) []ApexEvent {
	n := len(heights)
	if n < 3 || len(times) != n {
		return nil
	}

	events := make([]ApexEvent, 0)
	for i := 1; i < n-1; i++ {
		if heights[i] > heights[i-1] && heights[i] >= heights[i+1] {
			events = append(events, ApexEvent{Time: times[i], Height: heights[i]})
		}
	}
	return events
}

// Bounce computes jump statistics from a sample series. matDepth is the
// undeformed mat surface height for the air/contact split.
func Bounce(series *energy.Series, matDepth float64) BounceStats {
	stats := BounceStats{}
	if series == nil || series.Len() == 0 {
		return stats
	}

	times := series.Times()
	heights := series.Heights()

	stats.Apexes = Apexes(times, heights)
	stats.LowestHeight = heights[0]
	stats.HighestHeight = heights[0]

	airborne := 0
	for i, h := range heights {
		if h < stats.LowestHeight {
			stats.LowestHeight = h
		}
		if h > stats.HighestHeight {
			stats.HighestHeight = h
		}
		if h >= matDepth {
			airborne++
		}

		v := series.Samples[i].Velocity
		if v < 0 {
			v = -v
		}
		if v > stats.PeakSpeed {
			stats.PeakSpeed = v
		}
	}
	stats.AirFraction = float64(airborne) / float64(len(heights))

	if len(stats.Apexes) > 0 {
		sum := 0.0
		for _, a := range stats.Apexes {
			sum += a.Height
		}
		stats.MeanApex = sum / float64(len(stats.Apexes))
	}
	if len(stats.Apexes) > 1 {
		first := stats.Apexes[0].Time
		last := stats.Apexes[len(stats.Apexes)-1].Time
		stats.MeanPeriod = (last - first) / float64(len(stats.Apexes)-1)
	}

	return stats
}
