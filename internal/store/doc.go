// Package store provides SQLite-backed durable storage for completed
// simulation runs, keyed by run token, so `cyclesim trace` can show a
// run without re-executing the engine and `cyclesim replay` can re-run
// a run's stored inputs.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// A run's inputs (processes, resources, actions), its execution
// history, and its synchronization log are each stored in their own
// table keyed by run_id, so a run can be reloaded and replayed exactly
// as it was produced.
package store
