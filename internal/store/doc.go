// Package store provides SQLite-backed storage for compiled mapping
// definitions.
//
// Each compile of a definition is recorded as a snapshot:
//   - Snapshots: one row per distinct definition, keyed by a UUIDv7 id and
//     unique by content hash
//   - Statements: the equivalence and rewrite pairs of a snapshot, in
//     declaration order
//
// Writing the same definition twice returns the existing snapshot. Ordering
// uses the seq column (a logical clock), never timestamps.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Writers in separate processes serialize through AcquireLock, a file lock
// next to the database.
package store
