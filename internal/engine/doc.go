// Package engine owns the mutable simulation state and exposes the
// tick-driven facade: construct, reset, tick, is_finished, and the
// read accessors the CLI and harness drive the simulation through.
//
// Control flow per tick is single-threaded and deterministic: advance
// the cycle counter, then, depending on the engine's mode, either run
// one scheduling sub-tick (admit arrivals, pick or keep the running
// process, execute it) or one synchronization sub-tick (scan the
// action script for entries at the current cycle and interpret them in
// script order). tick() is the only mutation boundary; it never
// partially applies a cycle.
package engine
