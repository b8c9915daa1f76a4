// Package analysis extracts structure from recorded jump trajectories:
// apex events, bounce periods, time split between flight and mat
// contact, and the power spectrum of the height signal.
package analysis
