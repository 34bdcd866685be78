package handlers

import (
	"sort"
	"strings"
	"sync"

	"github.com/verdictlab/verdict/internal/contracts"
)

// DecisionStore keeps the latest decision per ticker for the lifetime of
// the process. Nothing persists across restarts; each run recomputes from
// scratch.
type DecisionStore struct {
	mu     sync.RWMutex
	latest map[string]*contracts.Decision
}

// NewDecisionStore creates an empty store.
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{latest: make(map[string]*contracts.Decision)}
}

// Put records the latest decision for its ticker.
func (s *DecisionStore) Put(d *contracts.Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[strings.ToUpper(d.Ticker)] = d
}

// Get returns the latest decision for a ticker.
func (s *DecisionStore) Get(ticker string) (*contracts.Decision, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.latest[strings.ToUpper(ticker)]
	return d, ok
}

// All returns the latest decision for every ticker, sorted by ticker.
func (s *DecisionStore) All() []*contracts.Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*contracts.Decision, 0, len(s.latest))
	for _, d := range s.latest {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}
