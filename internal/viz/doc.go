// Package viz renders jump simulations in the terminal.
//
// A Braille [Canvas] gives 2x4 sub-cell resolution; [Scene] draws the
// trampoline, mat deformation and jumper onto it. [Live] is a Bubble
// Tea program that steps a simulation in real time with energy bars for
// the three stores, parameter tuning, time travel and GIF capture.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to initial state
//	Tab   - Cycle tunable parameters
//	Up/Dn - Adjust selected parameter
//	[ ]   - Time travel (rewind/forward)
//	G     - Toggle GIF recording
//	T     - Cycle color themes
//	?     - Help overlay
package viz
