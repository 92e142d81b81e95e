package refresher

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnl-gg/league-tracker/internal/config"
	"github.com/bnl-gg/league-tracker/internal/ladder"
	"github.com/bnl-gg/league-tracker/internal/league"
	"github.com/bnl-gg/league-tracker/internal/matchcache"
	"github.com/bnl-gg/league-tracker/internal/metrics"
	"github.com/bnl-gg/league-tracker/internal/notifier"
	"github.com/bnl-gg/league-tracker/internal/pubsub"
	"github.com/bnl-gg/league-tracker/internal/stats"
)

type testHarness struct {
	refresher *Refresher
	store     *league.MockStore
	cache     *matchcache.Mock
	ladder    *ladder.Mock
	notifier  *notifier.Mock
	pubsub    *pubsub.Mock
	metrics   *metrics.Mock
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{
		store:    league.NewMock(),
		cache:    matchcache.NewMock(),
		ladder:   ladder.NewMock(),
		notifier: notifier.NewMock(),
		pubsub:   pubsub.NewMock("test-project"),
		metrics:  metrics.NewMock(),
	}
	cfg := config.RefreshConfig{
		Interval:     time.Minute,
		CacheTTL:     30 * time.Minute,
		RequestDelay: time.Second,
		SeasonStart:  time.Date(2025, 11, 27, 0, 0, 0, 0, time.UTC),
	}
	h.refresher = New(h.store, h.cache, h.ladder, h.notifier, h.pubsub, h.metrics, cfg)
	h.refresher.sleep = func(time.Duration) {}
	return h
}

func racePtr(r ladder.Race) *ladder.Race { return &r }

// winMatch builds a 1v1 win for battleTag against opponentTag.
func winMatch(battleTag, opponentTag string, startTime int64) ladder.MatchRecord {
	return ladder.MatchRecord{
		StartTime: startTime,
		GameMode:  1,
		Teams: []ladder.Team{
			{Players: []ladder.PlayerSlot{{BattleTag: battleTag, Race: racePtr(ladder.RaceHuman), OldMMR: 1500, CurrentMMR: 1510, Won: true}}},
			{Players: []ladder.PlayerSlot{{BattleTag: opponentTag, Race: racePtr(ladder.RaceOrc), OldMMR: 1500, CurrentMMR: 1490, Won: false}}},
		},
	}
}

func TestRunOnce_RefreshesAllMembers(t *testing.T) {
	h := newTestHarness(t)
	h.store.GetMembersFunc = func() ([]league.Member, error) {
		return []league.Member{
			{BattleTag: "alice#123", Name: "Alice"},
			{BattleTag: "bob#456", Name: "Bob"},
		}, nil
	}
	now := time.Now().Unix()
	h.ladder.GetMatchHistoryFunc = func(battleTag string) ([]ladder.MatchRecord, error) {
		return []ladder.MatchRecord{winMatch(battleTag, "stranger#999", now)}, nil
	}
	h.ladder.GetPlayerMMRFunc = func(battleTag string) (int, error) {
		return 1600, nil
	}

	summary := h.refresher.RunOnce(false)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.False(t, summary.Skipped)

	require.Len(t, h.store.UpsertPlayerStatsCalls, 2)
	first := h.store.UpsertPlayerStatsCalls[0]
	assert.Equal(t, "alice#123", first.BattleTag)
	assert.Equal(t, 1, first.Wins)
	assert.Equal(t, 0, first.Losses)
	assert.Equal(t, 1600, first.MMR)
	assert.Greater(t, first.Points, 0)

	// Empty cache means each player's history was fetched and cached.
	require.Len(t, h.cache.PutCalls, 2)
	assert.Equal(t, 30*time.Minute, h.cache.PutCalls[0].TTL)

	assert.Equal(t, 1, h.metrics.RefreshRuns())
	assert.Equal(t, 2, h.metrics.PlayersRefreshed())
	assert.Equal(t, 0, h.metrics.RefreshFailures())
}

func TestRunOnce_PublishesRefreshEvent(t *testing.T) {
	h := newTestHarness(t)
	h.store.GetMembersFunc = func() ([]league.Member, error) {
		return []league.Member{{BattleTag: "alice#123"}}, nil
	}

	h.refresher.RunOnce(false)

	require.Len(t, h.pubsub.SendMessageCalls, 1)
	assert.Equal(t, pubsub.TopicStatsRefreshed, h.pubsub.SendMessageCalls[0].Topic)
	event, ok := h.pubsub.SendMessageCalls[0].Data.(pubsub.RefreshEvent)
	require.True(t, ok)
	assert.Equal(t, 1, event.Succeeded)
}

func TestRunOnce_SkipsOverlappingRun(t *testing.T) {
	h := newTestHarness(t)

	h.refresher.runMu.Lock()
	summary := h.refresher.RunOnce(false)
	h.refresher.runMu.Unlock()

	assert.True(t, summary.Skipped)
	assert.Empty(t, h.store.UpsertPlayerStatsCalls)
}

func TestRunOnce_ToleratesPerPlayerFailure(t *testing.T) {
	h := newTestHarness(t)
	h.store.GetMembersFunc = func() ([]league.Member, error) {
		return []league.Member{
			{BattleTag: "alice#123"},
			{BattleTag: "bob#456"},
		}, nil
	}
	h.store.UpsertPlayerStatsFunc = func(playerStats *league.PlayerStats) error {
		if playerStats.BattleTag == "alice#123" {
			return errors.New("disk full")
		}
		return nil
	}

	summary := h.refresher.RunOnce(false)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, h.metrics.RefreshFailures())

	// A partial failure triggers the Slack summary.
	require.Len(t, h.notifier.SendRefreshSummaryCalls, 1)
	assert.Equal(t, 1, h.notifier.SendRefreshSummaryCalls[0].Failed)
}

func TestRunOnce_UsesFreshCacheWithoutRefetch(t *testing.T) {
	h := newTestHarness(t)
	h.store.GetMembersFunc = func() ([]league.Member, error) {
		return []league.Member{{BattleTag: "alice#123"}}, nil
	}
	now := time.Now().Unix()
	h.cache.GetFunc = func(battleTag string) (*matchcache.Entry, error) {
		return &matchcache.Entry{
			BattleTag:   battleTag,
			Matches:     []ladder.MatchRecord{winMatch(battleTag, "stranger#999", now)},
			LastUpdated: now,
			ExpiresAt:   now + 600,
		}, nil
	}

	summary := h.refresher.RunOnce(false)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Empty(t, h.ladder.GetMatchHistoryCalls)
	assert.Empty(t, h.cache.PutCalls)
	require.Len(t, h.store.UpsertPlayerStatsCalls, 1)
	assert.Equal(t, 1, h.store.UpsertPlayerStatsCalls[0].Wins)
}

func TestRunOnce_ServesStaleCacheWhenRefetchFails(t *testing.T) {
	h := newTestHarness(t)
	h.store.GetMembersFunc = func() ([]league.Member, error) {
		return []league.Member{{BattleTag: "alice#123"}}, nil
	}
	now := time.Now().Unix()
	h.cache.GetFunc = func(battleTag string) (*matchcache.Entry, error) {
		return &matchcache.Entry{
			BattleTag:   battleTag,
			Matches:     []ladder.MatchRecord{winMatch(battleTag, "stranger#999", now-3600)},
			LastUpdated: now - 3600,
			ExpiresAt:   now - 1800,
		}, nil
	}
	h.ladder.GetMatchHistoryFunc = func(battleTag string) ([]ladder.MatchRecord, error) {
		return nil, errors.New("503 service unavailable")
	}

	summary := h.refresher.RunOnce(false)

	assert.Equal(t, 1, summary.Succeeded)
	require.Len(t, h.store.UpsertPlayerStatsCalls, 1)
	assert.Equal(t, 1, h.store.UpsertPlayerStatsCalls[0].Wins)
}

func TestRunOnce_NotifiesNewlyUnlockedAchievements(t *testing.T) {
	h := newTestHarness(t)
	h.store.GetMembersFunc = func() ([]league.Member, error) {
		return []league.Member{
			{BattleTag: "alice#123"},
			{BattleTag: "bob#456"},
		}, nil
	}
	now := time.Now().Unix()
	h.ladder.GetMatchHistoryFunc = func(battleTag string) ([]ladder.MatchRecord, error) {
		// Alice beats Bob, a fellow league member.
		if battleTag == "alice#123" {
			return []ladder.MatchRecord{winMatch("alice#123", "bob#456", now)}, nil
		}
		return nil, nil
	}

	h.refresher.RunOnce(false)

	require.NotEmpty(t, h.notifier.SendAchievementUnlockedCalls)
	call := h.notifier.SendAchievementUnlockedCalls[0]
	assert.Equal(t, "alice#123", call.BattleTag)
	assert.Equal(t, ladder.RaceHuman, call.Race)
	assert.Contains(t, call.Keys, stats.AchBnlRobber)

	var achievementEvents int
	for _, sent := range h.pubsub.SendMessageCalls {
		if sent.Topic == pubsub.TopicAchievementsUnlocked {
			achievementEvents++
		}
	}
	assert.Equal(t, 1, achievementEvents)
}

func TestRunOnce_SkipsAlreadyEarnedAchievements(t *testing.T) {
	h := newTestHarness(t)
	h.store.GetMembersFunc = func() ([]league.Member, error) {
		return []league.Member{
			{BattleTag: "alice#123"},
			{BattleTag: "bob#456"},
		}, nil
	}
	h.store.GetPlayerStatsFunc = func(battleTag string) (*league.PlayerStats, error) {
		return &league.PlayerStats{
			BattleTag: battleTag,
			RaceStats: []stats.RaceProfile{{
				Race:         ladder.RaceHuman,
				Achievements: []string{stats.AchBnlRobber},
			}},
		}, nil
	}
	now := time.Now().Unix()
	h.ladder.GetMatchHistoryFunc = func(battleTag string) ([]ladder.MatchRecord, error) {
		if battleTag == "alice#123" {
			return []ladder.MatchRecord{winMatch("alice#123", "bob#456", now)}, nil
		}
		return nil, nil
	}

	h.refresher.RunOnce(false)

	assert.Empty(t, h.notifier.SendAchievementUnlockedCalls)
}

func TestRunOnce_DryRunSkipsWrites(t *testing.T) {
	h := newTestHarness(t)
	h.store.GetMembersFunc = func() ([]league.Member, error) {
		return []league.Member{{BattleTag: "alice#123"}}, nil
	}
	now := time.Now().Unix()
	h.ladder.GetMatchHistoryFunc = func(battleTag string) ([]ladder.MatchRecord, error) {
		return []ladder.MatchRecord{winMatch(battleTag, "stranger#999", now)}, nil
	}

	summary := h.refresher.RunOnce(true)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Empty(t, h.store.UpsertPlayerStatsCalls)
	assert.Empty(t, h.pubsub.SendMessageCalls)
	assert.Empty(t, h.notifier.SendAchievementUnlockedCalls)
}

func TestRunOnce_MMRFallbackToBestRace(t *testing.T) {
	h := newTestHarness(t)
	h.store.GetMembersFunc = func() ([]league.Member, error) {
		return []league.Member{{BattleTag: "alice#123"}}, nil
	}
	h.ladder.GetPlayerMMRFunc = func(battleTag string) (int, error) {
		return 0, errors.New("timeout")
	}
	now := time.Now().Unix()
	h.ladder.GetMatchHistoryFunc = func(battleTag string) ([]ladder.MatchRecord, error) {
		return []ladder.MatchRecord{winMatch(battleTag, "stranger#999", now)}, nil
	}

	summary := h.refresher.RunOnce(false)

	assert.Equal(t, 1, summary.Succeeded)
	require.Len(t, h.store.UpsertPlayerStatsCalls, 1)
	// The MMR lookup failed, so the highest per-race MMR stands in.
	assert.Equal(t, 1510, h.store.UpsertPlayerStatsCalls[0].MMR)
}

func TestRunOnce_MMRFallbackPicksHighestAcrossRaces(t *testing.T) {
	h := newTestHarness(t)
	h.store.GetMembersFunc = func() ([]league.Member, error) {
		return []league.Member{{BattleTag: "alice#123"}}, nil
	}
	h.ladder.GetPlayerMMRFunc = func(battleTag string) (int, error) {
		return 0, errors.New("timeout")
	}
	now := time.Now().Unix()
	raceWin := func(race ladder.Race, currentMMR int, startTime int64) ladder.MatchRecord {
		return ladder.MatchRecord{
			StartTime: startTime,
			GameMode:  1,
			Teams: []ladder.Team{
				{Players: []ladder.PlayerSlot{{BattleTag: "alice#123", Race: racePtr(race), OldMMR: currentMMR - 10, CurrentMMR: currentMMR, Won: true}}},
				{Players: []ladder.PlayerSlot{{BattleTag: "stranger#999", Race: racePtr(ladder.RaceOrc), OldMMR: 1500, CurrentMMR: 1490, Won: false}}},
			},
		}
	}
	h.ladder.GetMatchHistoryFunc = func(battleTag string) ([]ladder.MatchRecord, error) {
		// The lower race enum carries the lower rating.
		return []ladder.MatchRecord{
			raceWin(ladder.RaceHuman, 1480, now-60),
			raceWin(ladder.RaceUndead, 1650, now),
		}, nil
	}

	summary := h.refresher.RunOnce(false)

	assert.Equal(t, 1, summary.Succeeded)
	require.Len(t, h.store.UpsertPlayerStatsCalls, 1)
	assert.Equal(t, 1650, h.store.UpsertPlayerStatsCalls[0].MMR)
}
