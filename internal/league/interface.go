package league

// Store defines the interface for interacting with the league's data.
// The refresher owns the stats write path; the serving layer only reads.
type Store interface {
	// Roster
	AddMember(battleTag, name string) error
	RemoveMember(battleTag string) error
	GetMembers() ([]Member, error)
	GetMemberTags() ([]string, error)
	IsMember(battleTag string) bool

	// Precomputed stats
	UpsertPlayerStats(playerStats *PlayerStats) error
	GetPlayerStats(battleTag string) (*PlayerStats, error)
	GetAllPlayerStats() ([]PlayerStats, error)

	// Teams
	CreateTeam(name string, memberTags []string) (*Team, error)
	GetTeams() ([]Team, error)
	DeleteTeam(teamID string) error

	// Scheduled matches
	ScheduleMatch(player1Tag, player2Tag string, scheduledAt int64) (*ScheduledMatch, error)
	GetScheduledMatches() ([]ScheduledMatch, error)
	ReportMatchResult(matchID, winnerTag string) error
	CancelScheduledMatch(matchID string) error

	Clear()
}
