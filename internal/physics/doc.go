// Package physics provides the trampoline jump models.
//
// Each model implements the [dynamo.System] interface, defining the
// differential equations governing the jumper's motion:
//
//   - [Trampoline]: hybrid flight/contact dynamics with a damped mat
//     spring and an optional leg push
//   - [Harmonic]: the smooth classroom oscillation, height following a
//     raised cosine between apex and lowest point
//
// Both models implement [dynamo.Configurable] for runtime parameter
// adjustment, [dynamo.Hamiltonian] for total mechanical energy and
// [dynamo.Partitioned] for the kinetic/gravitational/elastic split.
//
// # Energy Conservation
//
// The undamped, unpushed trampoline conserves mechanical energy exactly;
// integrator drift can be monitored through [dynamo.Hamiltonian]:
//
//	dyn, _ := physics.NewTrampoline(physics.DefaultTrampolineParams())
//	if h, ok := dynamo.System(dyn).(dynamo.Hamiltonian); ok {
//	    e := h.Energy(state)
//	}
package physics
