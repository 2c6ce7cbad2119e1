package api

import (
	"sync"
	"time"

	"github.com/whaleradar/backend/pkg/models"
)

// Snapshot is one wholesale load of the dashboard's data. Loads replace the
// snapshot atomically; nothing is updated incrementally.
type Snapshot struct {
	Nodes     []models.NodeData
	Market    *models.MarketData
	Source    string // "csv", "lcd" or "mock"
	UpdatedAt time.Time
}

// State holds the latest snapshot for serving. A newer Set simply replaces
// the previous snapshot, which is how stale in-flight loads are discarded.
type State struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

func NewState() *State {
	return &State{}
}

// Set replaces the current snapshot
func (s *State) Set(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

// Get returns the current snapshot, or nil before the first load
func (s *State) Get() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Node looks up one account by id in the current snapshot
func (s *State) Node(id string) (*models.NodeData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, false
	}
	for i := range s.snapshot.Nodes {
		if s.snapshot.Nodes[i].ID == id {
			return &s.snapshot.Nodes[i], true
		}
	}
	return nil, false
}
