package ladder

import "sync"

// Mock is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	GetMatchHistoryFunc func(battleTag string) ([]MatchRecord, error)
	GetPlayerMMRFunc    func(battleTag string) (int, error)

	// Call records
	GetMatchHistoryCalls []string
	GetPlayerMMRCalls    []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchHistoryCalls = nil
	m.GetPlayerMMRCalls = nil
}

func (m *Mock) GetMatchHistory(battleTag string) ([]MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchHistoryCalls = append(m.GetMatchHistoryCalls, battleTag)
	if m.GetMatchHistoryFunc != nil {
		return m.GetMatchHistoryFunc(battleTag)
	}
	return nil, nil
}

func (m *Mock) GetPlayerMMR(battleTag string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayerMMRCalls = append(m.GetPlayerMMRCalls, battleTag)
	if m.GetPlayerMMRFunc != nil {
		return m.GetPlayerMMRFunc(battleTag)
	}
	return 0, nil
}
