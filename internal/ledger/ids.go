package ledger

import (
	"sync"
	"time"
)

// IDGenerator hands out record ids that are unique within a collection.
type IDGenerator interface {
	NextID() int64
	// Observe advances the generator past an id that already exists.
	Observe(id int64)
}

// ClockIDs derives ids from the wall clock in milliseconds but never repeats
// or goes backwards: two records created in the same tick get consecutive ids.
type ClockIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewClockIDs() *ClockIDs {
	return &ClockIDs{now: time.Now}
}

func (g *ClockIDs) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

func (g *ClockIDs) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

// SequenceIDs counts up from 1. Deterministic, handy in tests.
type SequenceIDs struct {
	mu   sync.Mutex
	last int64
}

func (g *SequenceIDs) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last++
	return g.last
}

func (g *SequenceIDs) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}
