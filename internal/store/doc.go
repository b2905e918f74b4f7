// Package store provides SQLite-backed durable storage for simulation runs.
//
// The store is an append-only history with:
//   - Runs: one row per executed circuit (circuit JSON, hash, seed, path,
//     probabilities and representative state)
//   - Run counts: one row per observed classical register per run
//
// # Ordering
//
// All ordering uses the seq INTEGER column, a logical clock assigned at
// write time, NEVER wall-clock timestamps. Every query ends in
// ORDER BY seq ASC, id COLLATE BINARY ASC so reads are reproducible.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Seeds are stored as decimal TEXT because they span the full uint64 range.
package store
