package notifier

import (
	"sync"

	"github.com/bnl-gg/league-tracker/internal/ladder"
	"github.com/bnl-gg/league-tracker/internal/league"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendAchievementUnlockedFunc func(battleTag string, race ladder.Race, keys []string, dryRun bool) error
	SendRefreshSummaryFunc      func(succeeded, failed int, durationSeconds float64, dryRun bool) error
	SendLeaderboardFunc         func(standings []league.PlayerStats, dryRun bool) error
	SendUpcomingMatchFunc       func(match *league.ScheduledMatch, dryRun bool) error

	// Call records
	SendAchievementUnlockedCalls []struct {
		BattleTag string
		Race      ladder.Race
		Keys      []string
	}
	SendRefreshSummaryCalls []struct {
		Succeeded int
		Failed    int
	}
	SendLeaderboardCalls   [][]league.PlayerStats
	SendUpcomingMatchCalls []*league.ScheduledMatch
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendAchievementUnlockedCalls = nil
	m.SendRefreshSummaryCalls = nil
	m.SendLeaderboardCalls = nil
	m.SendUpcomingMatchCalls = nil
}

func (m *Mock) SendAchievementUnlocked(battleTag string, race ladder.Race, keys []string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendAchievementUnlockedCalls = append(m.SendAchievementUnlockedCalls, struct {
		BattleTag string
		Race      ladder.Race
		Keys      []string
	}{battleTag, race, keys})
	if m.SendAchievementUnlockedFunc != nil {
		return m.SendAchievementUnlockedFunc(battleTag, race, keys, dryRun)
	}
	return nil
}

func (m *Mock) SendRefreshSummary(succeeded, failed int, durationSeconds float64, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRefreshSummaryCalls = append(m.SendRefreshSummaryCalls, struct {
		Succeeded int
		Failed    int
	}{succeeded, failed})
	if m.SendRefreshSummaryFunc != nil {
		return m.SendRefreshSummaryFunc(succeeded, failed, durationSeconds, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(standings []league.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, standings)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(standings, dryRun)
	}
	return nil
}

func (m *Mock) SendUpcomingMatch(match *league.ScheduledMatch, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendUpcomingMatchCalls = append(m.SendUpcomingMatchCalls, match)
	if m.SendUpcomingMatchFunc != nil {
		return m.SendUpcomingMatchFunc(match, dryRun)
	}
	return nil
}
