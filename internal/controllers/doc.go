// Package controllers provides control strategies for jump simulations.
//
// Controllers implement the [dynamo.Controller] interface to compute the
// leg-push force from the current state:
//
//   - [Pump]: PID-shaped push toward a target apex, active only in contact
//   - [None]: zero control (passive bouncing)
//
// Controllers implementing [dynamo.Configurable] support live tuning.
package controllers
