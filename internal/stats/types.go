package stats

import (
	"time"

	"github.com/bnl-gg/league-tracker/internal/ladder"
)

// MatchOutcome is the result of a single match from the tracked player's
// point of view.
type MatchOutcome string

const (
	OutcomeWin  MatchOutcome = "win"
	OutcomeLoss MatchOutcome = "loss"
)

// HistoryEntry is one scored match in a race profile's history.
type HistoryEntry struct {
	Result      MatchOutcome `json:"result"`
	MMRDiff     int          `json:"mmrDiff"`
	PlayerMMR   int          `json:"playerMmr"`
	OpponentMMR int          `json:"opponentMmr"`
	IsBnlMatch  bool         `json:"isBnlMatch"`
	OpponentTag string       `json:"opponentTag"`
}

// RaceProfile is the per-race aggregate of a player's scoring stats.
// MatchHistory is most-recent-first and capped at HistoryLimit entries.
type RaceProfile struct {
	Race         ladder.Race    `json:"race"`
	MMR          int            `json:"mmr"`
	Wins         int            `json:"wins"`
	Losses       int            `json:"losses"`
	Points       int            `json:"points"`
	Achievements []string       `json:"achievements"`
	MatchHistory []HistoryEntry `json:"matchHistory"`
	MatchCount   int            `json:"matchCount"`
}

// BonusTable maps achievement keys to their fixed point bonuses. It is
// injected into the engine so it can be swapped in tests; the engine never
// mutates it.
type BonusTable map[string]int

// EngineConfig holds the tunables of the scoring pipeline.
type EngineConfig struct {
	// SeasonStart (unix seconds) is the recency cutoff for long histories.
	SeasonStart int64
	// RecencyFilterAt is the history length above which the cutoff applies.
	// Shorter histories are assumed to be already filtered.
	RecencyFilterAt int
	// HistoryLimit caps the match history kept per race profile.
	HistoryLimit int
	Bonuses      BonusTable
}

// DefaultEngineConfig returns the production engine settings.
func DefaultEngineConfig() EngineConfig {
	seasonStart, _ := time.Parse(time.RFC3339, "2025-11-27T00:00:00Z")
	return EngineConfig{
		SeasonStart:     seasonStart.Unix(),
		RecencyFilterAt: 50,
		HistoryLimit:    20,
		Bonuses:         DefaultBonuses(),
	}
}

// EvalInput is the full input of a single achievement evaluation.
// History must be chronological, oldest first; the evaluator derives its
// own recency window from it.
type EvalInput struct {
	Wins       int
	Losses     int
	Points     int
	TotalGames int
	History    []HistoryEntry
	MMR        int
}
