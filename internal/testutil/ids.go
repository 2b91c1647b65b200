package testutil

import (
	"fmt"
	"slices"
	"sync"
)

// QueuedIDGenerator hands out explicitly queued IDs first and falls back to
// prefix-1, prefix-2, ... when the queue is empty.
//
// Scenarios queue the name a step gives its item right before the insert,
// so later steps can refer to the item by that name.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type QueuedIDGenerator struct {
	mu     sync.Mutex
	queue  []string
	prefix string
	n      int
}

// NewQueuedIDGenerator creates a generator with an empty queue.
// If prefix is empty, "id" is used.
func NewQueuedIDGenerator(prefix string) *QueuedIDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &QueuedIDGenerator{prefix: prefix}
}

// Queue appends ids to be returned by the next calls to Generate.
func (g *QueuedIDGenerator) Queue(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, ids...)
}

// Generate returns the oldest queued ID, or the next fallback ID.
//
// Implements ranking.IDGenerator.
func (g *QueuedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.queue) > 0 {
		id := g.queue[0]
		g.queue = g.queue[1:]
		return id
	}
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Unqueue removes id from the queue if it is still pending.
// Reports whether it was removed.
func (g *QueuedIDGenerator) Unqueue(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := slices.Index(g.queue, id)
	if i < 0 {
		return false
	}
	g.queue = slices.Delete(g.queue, i, i+1)
	return true
}
