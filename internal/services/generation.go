package services

import (
	"sync"

	"github.com/google/uuid"
)

// generations hands out a monotonically increasing token per user. A
// preview that finishes after a newer one started is stale and dropped.
type generations struct {
	mu      sync.Mutex
	current map[uuid.UUID]uint64
}

func newGenerations() *generations {
	return &generations{current: map[uuid.UUID]uint64{}}
}

func (g *generations) begin(userID uuid.UUID) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current[userID]++
	return g.current[userID]
}

func (g *generations) isCurrent(userID uuid.UUID, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current[userID] == gen
}
