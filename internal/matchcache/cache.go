package matchcache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/bnl-gg/league-tracker/internal/ladder"
)

// New creates a new match cache backed by the given database.
func New(db *sql.DB) Cache {
	return &store{
		db: db,
	}
}

// Get returns the cached entry for a player, or (nil, nil) when absent.
func (s *store) Get(battleTag string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT battle_tag, match_data, last_updated, expires_at
		FROM match_cache
		WHERE battle_tag = ?
	`, battleTag)

	var entry Entry
	var blob []byte
	err := row.Scan(&entry.BattleTag, &blob, &entry.LastUpdated, &entry.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read match cache for %s: %w", battleTag, err)
	}

	if len(blob) > 0 {
		if err := msgpack.Unmarshal(blob, &entry.Matches); err != nil {
			return nil, fmt.Errorf("failed to decode cached matches for %s: %w", battleTag, err)
		}
	}
	return &entry, nil
}

// Put overwrites the player's cached history with a fresh TTL.
func (s *store) Put(battleTag string, matches []ladder.MatchRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := msgpack.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to encode matches for %s: %w", battleTag, err)
	}

	now := time.Now().Unix()
	_, err = s.db.Exec(`
		INSERT INTO match_cache (battle_tag, match_data, last_updated, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(battle_tag) DO UPDATE SET
			match_data = excluded.match_data,
			last_updated = excluded.last_updated,
			expires_at = excluded.expires_at;
	`, battleTag, blob, now, now+int64(ttl.Seconds()))
	if err != nil {
		return fmt.Errorf("failed to write match cache for %s: %w", battleTag, err)
	}
	log.Debug("Cached match history", "battleTag", battleTag, "count", len(matches), "ttl", ttl)
	return nil
}

// Clear drops every cached entry.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM match_cache")
	if err != nil {
		return fmt.Errorf("failed to clear match cache: %w", err)
	}
	return nil
}
