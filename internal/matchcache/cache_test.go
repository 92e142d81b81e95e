package matchcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnl-gg/league-tracker/internal/database"
	"github.com/bnl-gg/league-tracker/internal/ladder"
)

func setupTestCache(t *testing.T) (Cache, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return New(db), teardown
}

func testMatches(battleTag string) []ladder.MatchRecord {
	race := ladder.RaceNightElf
	return []ladder.MatchRecord{{
		StartTime: time.Now().Unix(),
		GameMode:  1,
		Teams: []ladder.Team{
			{Players: []ladder.PlayerSlot{{BattleTag: battleTag, Race: &race, OldMMR: 1480, CurrentMMR: 1495, Won: true}}},
			{Players: []ladder.PlayerSlot{{BattleTag: "rival#99", Race: nil, OldMMR: 1510, CurrentMMR: 1496, Won: false}}},
		},
	}}
}

func TestCache_GetMissingEntry(t *testing.T) {
	cache, teardown := setupTestCache(t)
	defer teardown()

	entry, err := cache.Get("ghost#000")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCache_PutAndGetRoundTrip(t *testing.T) {
	cache, teardown := setupTestCache(t)
	defer teardown()

	matches := testMatches("alice#123")
	require.NoError(t, cache.Put("alice#123", matches, 30*time.Minute))

	entry, err := cache.Get("alice#123")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "alice#123", entry.BattleTag)
	assert.Equal(t, matches, entry.Matches)
	// A nil race survives serialization as nil, not zero.
	assert.Nil(t, entry.Matches[0].Teams[1].Players[0].Race)
	assert.False(t, entry.Expired(time.Now().Unix()))
}

func TestCache_PutReplacesExistingEntry(t *testing.T) {
	cache, teardown := setupTestCache(t)
	defer teardown()

	require.NoError(t, cache.Put("alice#123", testMatches("alice#123"), time.Minute))

	replacement := append(testMatches("alice#123"), testMatches("alice#123")...)
	require.NoError(t, cache.Put("alice#123", replacement, time.Minute))

	entry, err := cache.Get("alice#123")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Len(t, entry.Matches, 2)
}

func TestCache_Expiry(t *testing.T) {
	cache, teardown := setupTestCache(t)
	defer teardown()

	require.NoError(t, cache.Put("alice#123", testMatches("alice#123"), time.Minute))

	entry, err := cache.Get("alice#123")
	require.NoError(t, err)
	require.NotNil(t, entry)

	now := time.Now().Unix()
	assert.False(t, entry.Expired(now))
	assert.True(t, entry.Expired(now+61))
}

func TestCache_Clear(t *testing.T) {
	cache, teardown := setupTestCache(t)
	defer teardown()

	require.NoError(t, cache.Put("alice#123", testMatches("alice#123"), time.Minute))
	require.NoError(t, cache.Put("bob#456", testMatches("bob#456"), time.Minute))

	require.NoError(t, cache.Clear())

	entry, err := cache.Get("alice#123")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCache_EmptyHistoryRoundTrip(t *testing.T) {
	cache, teardown := setupTestCache(t)
	defer teardown()

	require.NoError(t, cache.Put("alice#123", nil, time.Minute))

	entry, err := cache.Get("alice#123")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Empty(t, entry.Matches)
}
