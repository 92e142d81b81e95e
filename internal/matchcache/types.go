package matchcache

import (
	"database/sql"
	"sync"

	"github.com/bnl-gg/league-tracker/internal/ladder"
)

// Entry is a player's cached raw match history plus its freshness window.
type Entry struct {
	BattleTag   string               `json:"battleTag"`
	Matches     []ladder.MatchRecord `json:"matches"`
	LastUpdated int64                `json:"lastUpdated"` // unix seconds
	ExpiresAt   int64                `json:"expiresAt"`   // unix seconds
}

// Expired reports whether the entry is past its freshness window at the
// given time. Stale entries remain readable; expiry only marks them as
// eligible for a re-fetch.
func (e *Entry) Expired(now int64) bool {
	return now >= e.ExpiresAt
}

// store handles all database operations for the match cache.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
