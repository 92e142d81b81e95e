package league

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddMemberFunc            func(battleTag, name string) error
	RemoveMemberFunc         func(battleTag string) error
	GetMembersFunc           func() ([]Member, error)
	GetMemberTagsFunc        func() ([]string, error)
	IsMemberFunc             func(battleTag string) bool
	UpsertPlayerStatsFunc    func(playerStats *PlayerStats) error
	GetPlayerStatsFunc       func(battleTag string) (*PlayerStats, error)
	GetAllPlayerStatsFunc    func() ([]PlayerStats, error)
	CreateTeamFunc           func(name string, memberTags []string) (*Team, error)
	GetTeamsFunc             func() ([]Team, error)
	DeleteTeamFunc           func(teamID string) error
	ScheduleMatchFunc        func(player1Tag, player2Tag string, scheduledAt int64) (*ScheduledMatch, error)
	GetScheduledMatchesFunc  func() ([]ScheduledMatch, error)
	ReportMatchResultFunc    func(matchID, winnerTag string) error
	CancelScheduledMatchFunc func(matchID string) error

	// Call records
	AddMemberCalls         []Member
	RemoveMemberCalls      []string
	UpsertPlayerStatsCalls []*PlayerStats
	GetPlayerStatsCalls    []string
	CreateTeamCalls        []string
	DeleteTeamCalls        []string
	ScheduleMatchCalls     []ScheduledMatch
	ReportMatchResultCalls []struct {
		MatchID   string
		WinnerTag string
	}
	CancelScheduledMatchCalls []string
	ClearCalls                int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddMemberCalls = nil
	m.RemoveMemberCalls = nil
	m.UpsertPlayerStatsCalls = nil
	m.GetPlayerStatsCalls = nil
	m.CreateTeamCalls = nil
	m.DeleteTeamCalls = nil
	m.ScheduleMatchCalls = nil
	m.ReportMatchResultCalls = nil
	m.CancelScheduledMatchCalls = nil
	m.ClearCalls = 0
}

func (m *MockStore) AddMember(battleTag, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddMemberCalls = append(m.AddMemberCalls, Member{BattleTag: battleTag, Name: name})
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(battleTag, name)
	}
	return nil
}

func (m *MockStore) RemoveMember(battleTag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveMemberCalls = append(m.RemoveMemberCalls, battleTag)
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(battleTag)
	}
	return nil
}

func (m *MockStore) GetMembers() ([]Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMembersFunc != nil {
		return m.GetMembersFunc()
	}
	return nil, nil
}

func (m *MockStore) GetMemberTags() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMemberTagsFunc != nil {
		return m.GetMemberTagsFunc()
	}
	return nil, nil
}

func (m *MockStore) IsMember(battleTag string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsMemberFunc != nil {
		return m.IsMemberFunc(battleTag)
	}
	return false
}

func (m *MockStore) UpsertPlayerStats(playerStats *PlayerStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayerStatsCalls = append(m.UpsertPlayerStatsCalls, playerStats)
	if m.UpsertPlayerStatsFunc != nil {
		return m.UpsertPlayerStatsFunc(playerStats)
	}
	return nil
}

func (m *MockStore) GetPlayerStats(battleTag string) (*PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayerStatsCalls = append(m.GetPlayerStatsCalls, battleTag)
	if m.GetPlayerStatsFunc != nil {
		return m.GetPlayerStatsFunc(battleTag)
	}
	return nil, nil
}

func (m *MockStore) GetAllPlayerStats() ([]PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayerStatsFunc != nil {
		return m.GetAllPlayerStatsFunc()
	}
	return nil, nil
}

func (m *MockStore) CreateTeam(name string, memberTags []string) (*Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateTeamCalls = append(m.CreateTeamCalls, name)
	if m.CreateTeamFunc != nil {
		return m.CreateTeamFunc(name, memberTags)
	}
	return &Team{Name: name, MemberTags: memberTags}, nil
}

func (m *MockStore) GetTeams() ([]Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTeamsFunc != nil {
		return m.GetTeamsFunc()
	}
	return nil, nil
}

func (m *MockStore) DeleteTeam(teamID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteTeamCalls = append(m.DeleteTeamCalls, teamID)
	if m.DeleteTeamFunc != nil {
		return m.DeleteTeamFunc(teamID)
	}
	return nil
}

func (m *MockStore) ScheduleMatch(player1Tag, player2Tag string, scheduledAt int64) (*ScheduledMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScheduleMatchCalls = append(m.ScheduleMatchCalls, ScheduledMatch{Player1Tag: player1Tag, Player2Tag: player2Tag, ScheduledAt: scheduledAt})
	if m.ScheduleMatchFunc != nil {
		return m.ScheduleMatchFunc(player1Tag, player2Tag, scheduledAt)
	}
	return &ScheduledMatch{Player1Tag: player1Tag, Player2Tag: player2Tag, ScheduledAt: scheduledAt, Status: MatchScheduled}, nil
}

func (m *MockStore) GetScheduledMatches() ([]ScheduledMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetScheduledMatchesFunc != nil {
		return m.GetScheduledMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) ReportMatchResult(matchID, winnerTag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportMatchResultCalls = append(m.ReportMatchResultCalls, struct {
		MatchID   string
		WinnerTag string
	}{matchID, winnerTag})
	if m.ReportMatchResultFunc != nil {
		return m.ReportMatchResultFunc(matchID, winnerTag)
	}
	return nil
}

func (m *MockStore) CancelScheduledMatch(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelScheduledMatchCalls = append(m.CancelScheduledMatchCalls, matchID)
	if m.CancelScheduledMatchFunc != nil {
		return m.CancelScheduledMatchFunc(matchID)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
}
