// Package store provides SQLite-backed durable storage for ranked lists.
//
// The store holds three tables:
//   - Alphabets: canonical JSON of each alphabet, keyed by its content hash
//   - Lists: named lists bound to one alphabet
//   - Items: list entries with their ordering keys
//
// Keys are unique within a list. The store does not interpret keys; callers
// that need list order decode them with the list's symbol table, since byte
// order and digit order differ for alphabets whose symbols are not in
// ascending byte order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
