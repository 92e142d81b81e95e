package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnl-gg/league-tracker/internal/ladder"
)

const (
	testPlayer   = "player#1234"
	testOpponent = "rival#5678"
)

func racePtr(r ladder.Race) *ladder.Race { return &r }

// match1v1 builds a 1v1 match for testPlayer with the given outcome and
// ratings. startTime drives both ordering and recency filtering.
func match1v1(startTime int64, won bool, playerMMR, opponentMMR int, race ladder.Race, opponentTag string) ladder.MatchRecord {
	return ladder.MatchRecord{
		StartTime: startTime,
		GameMode:  1,
		Teams: []ladder.Team{
			{Players: []ladder.PlayerSlot{{BattleTag: testPlayer, Race: racePtr(race), OldMMR: playerMMR, CurrentMMR: playerMMR, Won: won}}},
			{Players: []ladder.PlayerSlot{{BattleTag: opponentTag, Race: racePtr(ladder.RaceOrc), OldMMR: opponentMMR, CurrentMMR: opponentMMR, Won: !won}}},
		},
	}
}

func testConfig() EngineConfig {
	cfg := DefaultEngineConfig()
	return cfg
}

func TestComputeProfiles_NoMatchesReturnsZeroProfile(t *testing.T) {
	profiles := ComputeProfiles(testPlayer, nil, nil, testConfig())

	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, ladder.RaceRandom, p.Race)
	assert.Zero(t, p.Wins)
	assert.Zero(t, p.Losses)
	assert.Zero(t, p.Points)
	assert.NotNil(t, p.Achievements)
	assert.Empty(t, p.Achievements)
	assert.NotNil(t, p.MatchHistory)
	assert.Empty(t, p.MatchHistory)
}

func TestComputeProfiles_SkipsNonLadderMatches(t *testing.T) {
	base := time.Now().Unix()
	ffa := match1v1(base, true, 1500, 1500, ladder.RaceHuman, testOpponent)
	ffa.GameMode = 2

	oneTeam := match1v1(base+10, true, 1500, 1500, ladder.RaceHuman, testOpponent)
	oneTeam.Teams = oneTeam.Teams[:1]

	noRace := match1v1(base+20, true, 1500, 1500, ladder.RaceHuman, testOpponent)
	noRace.Teams[0].Players[0].Race = nil

	notMine := match1v1(base+30, true, 1500, 1500, ladder.RaceHuman, testOpponent)
	notMine.Teams[0].Players[0].BattleTag = "someone#else"

	profiles := ComputeProfiles(testPlayer, []ladder.MatchRecord{ffa, oneTeam, noRace, notMine}, nil, testConfig())

	require.Len(t, profiles, 1)
	assert.Equal(t, ladder.RaceRandom, profiles[0].Race)
	assert.Zero(t, profiles[0].MatchCount)
}

func TestComputeProfiles_WinPointTiers(t *testing.T) {
	tests := []struct {
		name        string
		playerMMR   int
		opponentMMR int
		want        int
	}{
		{"big underdog win", 1500, 1520, 70},
		{"barely underdog win", 1500, 1519, 50},
		{"even win", 1500, 1500, 50},
		{"barely favorite win", 1519, 1500, 50},
		{"big favorite win", 1520, 1500, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := match1v1(time.Now().Unix(), true, tt.playerMMR, tt.opponentMMR, ladder.RaceHuman, testOpponent)
			profiles := ComputeProfiles(testPlayer, []ladder.MatchRecord{m}, nil, testConfig())
			require.Len(t, profiles, 1)
			assert.Equal(t, tt.want, profiles[0].Points)
		})
	}
}

func TestComputeProfiles_LossPointTiers(t *testing.T) {
	tests := []struct {
		name        string
		playerMMR   int
		opponentMMR int
		want        int
	}{
		{"big favorite loss", 1520, 1500, -70},
		{"barely favorite loss", 1519, 1500, -50},
		{"even loss", 1500, 1500, -50},
		{"barely underdog loss", 1500, 1519, -50},
		{"big underdog loss", 1500, 1520, -30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := match1v1(time.Now().Unix(), false, tt.playerMMR, tt.opponentMMR, ladder.RaceHuman, testOpponent)
			profiles := ComputeProfiles(testPlayer, []ladder.MatchRecord{m}, nil, testConfig())
			require.Len(t, profiles, 1)
			assert.Equal(t, tt.want, profiles[0].Points)
		})
	}
}

func TestComputeProfiles_MMRFallbackChain(t *testing.T) {
	base := time.Now().Unix()

	t.Run("current MMR when old missing", func(t *testing.T) {
		m := match1v1(base, true, 0, 1600, ladder.RaceHuman, testOpponent)
		m.Teams[0].Players[0].CurrentMMR = 1580
		profiles := ComputeProfiles(testPlayer, []ladder.MatchRecord{m}, nil, testConfig())
		require.Len(t, profiles, 1)
		require.Len(t, profiles[0].MatchHistory, 1)
		assert.Equal(t, 1580, profiles[0].MatchHistory[0].PlayerMMR)
		assert.Equal(t, 20, profiles[0].MatchHistory[0].MMRDiff)
	})

	t.Run("neutral default when both missing", func(t *testing.T) {
		m := match1v1(base, true, 0, 1500, ladder.RaceHuman, testOpponent)
		m.Teams[0].Players[0].CurrentMMR = 0
		profiles := ComputeProfiles(testPlayer, []ladder.MatchRecord{m}, nil, testConfig())
		require.Len(t, profiles, 1)
		require.Len(t, profiles[0].MatchHistory, 1)
		assert.Equal(t, 1500, profiles[0].MatchHistory[0].PlayerMMR)
	})
}

func TestComputeProfiles_ThreeWinStreak(t *testing.T) {
	base := time.Now().Unix()
	matches := []ladder.MatchRecord{
		match1v1(base, true, 1500, 1500, ladder.RaceHuman, testOpponent),
		match1v1(base+60, true, 1500, 1500, ladder.RaceHuman, testOpponent),
		match1v1(base+120, true, 1500, 1500, ladder.RaceHuman, testOpponent),
	}

	profiles := ComputeProfiles(testPlayer, matches, nil, testConfig())

	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, 3, p.Wins)
	assert.Zero(t, p.Losses)
	// 3 even wins plus the winStreak3 bonus.
	assert.Equal(t, 180, p.Points)
	assert.Contains(t, p.Achievements, AchWinStreak3)
}

func TestComputeProfiles_AlternatingResultsCancelOut(t *testing.T) {
	base := time.Now().Unix()
	var matches []ladder.MatchRecord
	for i := 0; i < 10; i++ {
		matches = append(matches, match1v1(base+int64(i*60), i%2 == 0, 1500, 1500, ladder.RaceHuman, testOpponent))
	}

	profiles := ComputeProfiles(testPlayer, matches, nil, testConfig())

	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, 5, p.Wins)
	assert.Equal(t, 5, p.Losses)
	assert.Zero(t, p.Points)
	assert.NotContains(t, p.Achievements, AchWinStreak3)
	assert.NotContains(t, p.Achievements, AchLoseStreak3)
}

func TestComputeProfiles_GroupsByRace(t *testing.T) {
	base := time.Now().Unix()
	matches := []ladder.MatchRecord{
		match1v1(base, true, 1500, 1500, ladder.RaceUndead, testOpponent),
		match1v1(base+60, true, 1500, 1500, ladder.RaceHuman, testOpponent),
		match1v1(base+120, false, 1500, 1500, ladder.RaceHuman, testOpponent),
	}

	profiles := ComputeProfiles(testPlayer, matches, nil, testConfig())

	require.Len(t, profiles, 2)
	// Profiles are sorted by race id.
	assert.Equal(t, ladder.RaceHuman, profiles[0].Race)
	assert.Equal(t, 1, profiles[0].Wins)
	assert.Equal(t, 1, profiles[0].Losses)
	assert.Equal(t, ladder.RaceUndead, profiles[1].Race)
	assert.Equal(t, 1, profiles[1].Wins)
}

func TestComputeProfiles_HistoryCapAndOrder(t *testing.T) {
	base := time.Now().Unix()
	var matches []ladder.MatchRecord
	for i := 0; i < 25; i++ {
		// Use a distinct opponent MMR per match so entries are identifiable.
		matches = append(matches, match1v1(base+int64(i*60), true, 1500, 1600+i, ladder.RaceHuman, testOpponent))
	}

	profiles := ComputeProfiles(testPlayer, matches, nil, testConfig())

	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, 25, p.MatchCount)
	require.Len(t, p.MatchHistory, 20)
	// Most recent first: the newest match has opponent MMR 1624.
	assert.Equal(t, 1624, p.MatchHistory[0].OpponentMMR)
	assert.Equal(t, 1605, p.MatchHistory[19].OpponentMMR)
}

func TestComputeProfiles_NormalizesDescendingInput(t *testing.T) {
	base := time.Now().Unix()
	// Newest first, as the ladder API returns them.
	matches := []ladder.MatchRecord{
		match1v1(base+120, true, 1500, 1500, ladder.RaceHuman, testOpponent),
		match1v1(base+60, true, 1500, 1500, ladder.RaceHuman, testOpponent),
		match1v1(base, true, 1500, 1500, ladder.RaceHuman, testOpponent),
	}
	inputCopy := make([]ladder.MatchRecord, len(matches))
	copy(inputCopy, matches)

	profiles := ComputeProfiles(testPlayer, matches, nil, testConfig())

	require.Len(t, profiles, 1)
	// A 3-win streak is only visible once the order is chronological.
	assert.Contains(t, profiles[0].Achievements, AchWinStreak3)
	// The caller's slice is left untouched.
	assert.Equal(t, inputCopy, matches)
}

func TestComputeProfiles_RecencyFilterOnLongHistories(t *testing.T) {
	cfg := testConfig()
	old := cfg.SeasonStart - 1000
	recent := cfg.SeasonStart + 1000

	var matches []ladder.MatchRecord
	for i := 0; i < 40; i++ {
		matches = append(matches, match1v1(old+int64(i), true, 1500, 1500, ladder.RaceHuman, testOpponent))
	}
	for i := 0; i < 15; i++ {
		matches = append(matches, match1v1(recent+int64(i), true, 1500, 1500, ladder.RaceHuman, testOpponent))
	}

	profiles := ComputeProfiles(testPlayer, matches, nil, cfg)

	require.Len(t, profiles, 1)
	// 55 matches total exceeds the filter threshold, so the 40 pre-season
	// matches are dropped.
	assert.Equal(t, 15, profiles[0].MatchCount)
	assert.Equal(t, 15, profiles[0].Wins)
}

func TestComputeProfiles_ShortHistoriesSkipRecencyFilter(t *testing.T) {
	cfg := testConfig()
	old := cfg.SeasonStart - 1000

	var matches []ladder.MatchRecord
	for i := 0; i < 10; i++ {
		matches = append(matches, match1v1(old+int64(i), true, 1500, 1500, ladder.RaceHuman, testOpponent))
	}

	profiles := ComputeProfiles(testPlayer, matches, nil, cfg)

	require.Len(t, profiles, 1)
	assert.Equal(t, 10, profiles[0].MatchCount)
}

func TestComputeProfiles_FlagsLeagueOpponents(t *testing.T) {
	base := time.Now().Unix()
	members := map[string]bool{testOpponent: true}
	matches := []ladder.MatchRecord{
		match1v1(base, true, 1500, 1500, ladder.RaceHuman, testOpponent),
		match1v1(base+60, true, 1500, 1500, ladder.RaceHuman, "outsider#1"),
	}

	profiles := ComputeProfiles(testPlayer, matches, members, testConfig())

	require.Len(t, profiles, 1)
	p := profiles[0]
	require.Len(t, p.MatchHistory, 2)
	assert.False(t, p.MatchHistory[0].IsBnlMatch)
	assert.True(t, p.MatchHistory[1].IsBnlMatch)
	assert.Contains(t, p.Achievements, AchBnlRobber)
}

func TestComputeProfiles_UnknownBonusKeyAwardsNoPoints(t *testing.T) {
	cfg := testConfig()
	// Strip the streak bonus from the table to simulate a key the deployment
	// does not know about.
	delete(cfg.Bonuses, AchWinStreak3)

	base := time.Now().Unix()
	matches := []ladder.MatchRecord{
		match1v1(base, true, 1500, 1500, ladder.RaceHuman, testOpponent),
		match1v1(base+60, true, 1500, 1500, ladder.RaceHuman, testOpponent),
		match1v1(base+120, true, 1500, 1500, ladder.RaceHuman, testOpponent),
	}

	profiles := ComputeProfiles(testPlayer, matches, nil, cfg)

	require.Len(t, profiles, 1)
	// The key is still reported, but no bonus points are granted.
	assert.Contains(t, profiles[0].Achievements, AchWinStreak3)
	assert.Equal(t, 150, profiles[0].Points)
}

func TestComputeProfiles_Deterministic(t *testing.T) {
	base := time.Now().Unix()
	var matches []ladder.MatchRecord
	races := []ladder.Race{ladder.RaceHuman, ladder.RaceOrc, ladder.RaceNightElf, ladder.RaceUndead}
	for i := 0; i < 20; i++ {
		matches = append(matches, match1v1(base+int64(i*60), i%3 != 0, 1500+i, 1500, races[i%4], testOpponent))
	}

	first := ComputeProfiles(testPlayer, matches, nil, testConfig())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ComputeProfiles(testPlayer, matches, nil, testConfig()))
	}
}
