// Package energy implements mechanical-energy bookkeeping for trampoline
// jumps.
//
// The [Ledger] prices any height of a lossless bounce into kinetic,
// gravitational and elastic stores using conservation: the jumper carries
// mass*gravity*dropHeight in total, gravity takes mass*gravity*height, the
// mat spring takes half*stiffness*compression squared, and whatever is
// left is motion. The package also provides [dynamo.Metric]
// implementations for observing runs: drift, apex, peak compression,
// contact fraction, store shares and push effort.
package energy
