package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	refreshRuns      int
	playersRefreshed int
	refreshFailures  int
	refreshDurations []float64
	computeDurations []float64
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncRefreshRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshRuns++
}

func (m *Mock) IncPlayersRefreshed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersRefreshed++
}

func (m *Mock) IncRefreshFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshFailures++
}

func (m *Mock) ObserveRefreshDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshDurations = append(m.refreshDurations, duration)
}

func (m *Mock) ObserveComputeDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.computeDurations = append(m.computeDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RefreshRuns returns the number of times IncRefreshRuns was called.
func (m *Mock) RefreshRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshRuns
}

// PlayersRefreshed returns the number of times IncPlayersRefreshed was called.
func (m *Mock) PlayersRefreshed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersRefreshed
}

// RefreshFailures returns the number of times IncRefreshFailures was called.
func (m *Mock) RefreshFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshFailures
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
