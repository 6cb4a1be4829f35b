// Package history provides SQLite-backed storage for calculation history.
//
// Only successful evaluations are recorded; the error sentinels are
// rejected. The store keeps the newest Limit entries (default 50) and
// prunes older ones on every write.
//
// # Ordering
//
// Entries are ordered by a logical seq column, never by wall-clock time.
// seq is assigned as MAX(seq)+1 inside the write transaction, so the newest
// entry always has the highest seq and Recall(1) returns it.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Entry IDs are UUIDv7 by default; tests inject a FixedGenerator or a
// SequenceGenerator for deterministic output.
package history
