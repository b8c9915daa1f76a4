// Package dynamo provides the simulation core for the trampoline jump
// models.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: system state vector ([height, velocity] for jump models)
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepping interface
//   - [Controller]: feedback controller interface (leg pushes)
//   - [Partitioned]: kinetic/gravitational/elastic energy accounting
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	dyn, _ := physics.NewTrampoline(physics.DefaultTrampolineParams())
//	integ := integrators.NewRK4()
//	sim := dynamo.New(dyn, integ, nil)
//	result, _ := sim.Run(ctx, dyn.DefaultState(), dynamo.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel simulations, use
// the [Ensemble] type, which builds one simulator per run.
package dynamo
