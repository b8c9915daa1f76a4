// Package integrators provides numerical ODE steppers for jump
// simulations.
//
//   - [Euler]: first order, cheap, visibly gains energy on a bounce;
//     kept for demonstrating why order matters
//   - [RK4]: fourth order, the default for trampoline runs
//   - [Verlet], [Leapfrog]: symplectic, bounded energy drift over long
//     bounce sessions; assume the [position..., velocity...] state layout
//   - [RK45]: adaptive Dormand-Prince, shrinks the step through mat
//     contact and stretches it in flight
package integrators
