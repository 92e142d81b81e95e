package league

import (
	"database/sql"
	"sync"

	"github.com/bnl-gg/league-tracker/internal/stats"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Member is a tracked league player.
type Member struct {
	BattleTag string `json:"battle_tag"`
	Name      string `json:"name"`
	AddedAt   int64  `json:"added_at"`
}

// PlayerStats is the persisted precomputed profile served to clients.
// The overall counters are sums across the race profiles.
type PlayerStats struct {
	BattleTag string              `json:"battle_tag"`
	Points    int                 `json:"points"`
	Wins      int                 `json:"wins"`
	Losses    int                 `json:"losses"`
	MMR       int                 `json:"mmr"`
	RaceStats []stats.RaceProfile `json:"race_stats"`
	UpdatedAt int64               `json:"updated_at"`
}

// Team is an admin-managed roster grouping.
type Team struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	MemberTags []string `json:"member_tags"`
	CreatedAt  int64    `json:"created_at"`
}

// MatchStatus is the lifecycle state of a scheduled 1v1 match.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchPlayed    MatchStatus = "PLAYED"
	MatchCanceled  MatchStatus = "CANCELED"
)

// ScheduledMatch is an admin-created 1v1 fixture between two members.
type ScheduledMatch struct {
	ID          string      `json:"id"`
	Player1Tag  string      `json:"player1_tag"`
	Player2Tag  string      `json:"player2_tag"`
	ScheduledAt int64       `json:"scheduled_at"`
	Status      MatchStatus `json:"status"`
	WinnerTag   string      `json:"winner_tag,omitempty"`
	CreatedAt   int64       `json:"created_at"`
}
