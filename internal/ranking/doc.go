// Package ranking keeps persisted lists in order by assigning each item a
// mudder key.
//
// Inserting or moving an item never touches its siblings: the new key is
// generated strictly between the keys of its future neighbours. Keys grow
// longer under repeated insertion at one spot; Rebalance spreads a list
// evenly over short keys again.
//
// Thread-safety model:
//   - All mutating methods are serialized by the Service (single writer)
//   - Items and OpenList are safe from any goroutine
//   - Symbol tables are cached per alphabet hash and shared read-only
package ranking
