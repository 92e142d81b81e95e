package matchcache

import (
	"time"

	"github.com/bnl-gg/league-tracker/internal/ladder"
)

// Cache stores per-player raw match histories so recomputation is
// decoupled from the external API's rate limits. Put is a full replace of
// whatever was cached before; there is no merge.
type Cache interface {
	// Get returns the cached entry for a player, or (nil, nil) when absent.
	Get(battleTag string) (*Entry, error)
	// Put overwrites the player's cached history with a fresh TTL.
	Put(battleTag string, matches []ladder.MatchRecord, ttl time.Duration) error
	// Clear drops every cached entry.
	Clear() error
}
