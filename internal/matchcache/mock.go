package matchcache

import (
	"sync"
	"time"

	"github.com/bnl-gg/league-tracker/internal/ladder"
)

// Mock is a mock implementation of the Cache interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	GetFunc   func(battleTag string) (*Entry, error)
	PutFunc   func(battleTag string, matches []ladder.MatchRecord, ttl time.Duration) error
	ClearFunc func() error

	// Call records
	GetCalls []string
	PutCalls []struct {
		BattleTag string
		Matches   []ladder.MatchRecord
		TTL       time.Duration
	}
	ClearCalls int
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = nil
	m.PutCalls = nil
	m.ClearCalls = 0
}

func (m *Mock) Get(battleTag string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, battleTag)
	if m.GetFunc != nil {
		return m.GetFunc(battleTag)
	}
	return nil, nil
}

func (m *Mock) Put(battleTag string, matches []ladder.MatchRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls = append(m.PutCalls, struct {
		BattleTag string
		Matches   []ladder.MatchRecord
		TTL       time.Duration
	}{battleTag, matches, ttl})
	if m.PutFunc != nil {
		return m.PutFunc(battleTag, matches, ttl)
	}
	return nil
}

func (m *Mock) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	return nil
}
