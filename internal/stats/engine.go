package stats

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/bnl-gg/league-tracker/internal/ladder"
)

// fallbackMMR is assumed when a match record carries no rating at all.
const fallbackMMR = 1500

// Win and loss point tiers by MMR difference (opponent minus player).
const (
	winPointsUnderdog = 70
	winPointsEven     = 50
	winPointsFavorite = 30

	lossPointsFavorite = -70
	lossPointsEven     = -50
	lossPointsUnderdog = -30
)

// ComputeProfiles derives the per-race scoring profiles for a player from
// raw match records. It is pure: no I/O, no clock reads, and identical
// inputs always produce identical output. leagueMembers is the set of
// tracked handles used to flag rivalry matches.
func ComputeProfiles(battleTag string, matches []ladder.MatchRecord, leagueMembers map[string]bool, cfg EngineConfig) []RaceProfile {
	matches = filterRecent(matches, cfg)
	matches = normalizeOrder(matches)

	buckets, raceMMR := groupByRace(battleTag, matches)

	var profiles []RaceProfile
	for race, bucket := range buckets {
		profiles = append(profiles, scoreRace(battleTag, race, bucket, raceMMR[race], leagueMembers, cfg))
	}

	// Callers always receive at least one profile.
	if len(profiles) == 0 {
		return []RaceProfile{{
			Race:         ladder.RaceRandom,
			Achievements: []string{},
			MatchHistory: []HistoryEntry{},
		}}
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Race < profiles[j].Race })
	return profiles
}

// filterRecent drops matches older than the season start, but only for long
// histories; short ones are assumed to be already filtered.
func filterRecent(matches []ladder.MatchRecord, cfg EngineConfig) []ladder.MatchRecord {
	if len(matches) <= cfg.RecencyFilterAt {
		return matches
	}
	filtered := make([]ladder.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.StartTime >= cfg.SeasonStart {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// normalizeOrder ensures chronological ascending order, which the streak
// and latest-MMR semantics depend on. The input slice is never mutated.
func normalizeOrder(matches []ladder.MatchRecord) []ladder.MatchRecord {
	if len(matches) < 2 || matches[0].StartTime <= matches[len(matches)-1].StartTime {
		return matches
	}
	sorted := make([]ladder.MatchRecord, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartTime < sorted[j].StartTime })
	return sorted
}

// groupByRace buckets matches by the race the tracked player queued as, and
// tracks the most recently observed current MMR per race. Malformed records
// and non-1v1 game modes are skipped.
func groupByRace(battleTag string, matches []ladder.MatchRecord) (map[ladder.Race][]ladder.MatchRecord, map[ladder.Race]int) {
	buckets := make(map[ladder.Race][]ladder.MatchRecord)
	raceMMR := make(map[ladder.Race]int)

	for _, match := range matches {
		if match.GameMode != 1 || len(match.Teams) < 2 {
			continue
		}
		slot, found := findPlayer(match, battleTag)
		if !found || slot.Race == nil {
			continue
		}
		race := *slot.Race
		buckets[race] = append(buckets[race], match)
		// Last write wins; matches are chronological at this point.
		raceMMR[race] = slot.CurrentMMR
	}
	return buckets, raceMMR
}

func findPlayer(match ladder.MatchRecord, battleTag string) (ladder.PlayerSlot, bool) {
	for _, team := range match.Teams {
		for _, slot := range team.Players {
			if slot.BattleTag == battleTag {
				return slot, true
			}
		}
	}
	return ladder.PlayerSlot{}, false
}

// scoreRace walks one race's matches oldest to newest, accumulating points,
// win/loss counters and match history, then runs the achievement pass.
func scoreRace(battleTag string, race ladder.Race, bucket []ladder.MatchRecord, currentMMR int, leagueMembers map[string]bool, cfg EngineConfig) RaceProfile {
	var (
		history     []HistoryEntry
		wins        int
		losses      int
		totalPoints int
	)

	for _, match := range bucket {
		player, opponent, ok := splitSides(match, battleTag)
		if !ok {
			continue
		}

		playerMMR := effectiveMMR(player)
		opponentMMR := effectiveMMR(opponent)
		mmrDiff := opponentMMR - playerMMR

		entry := HistoryEntry{
			MMRDiff:     mmrDiff,
			PlayerMMR:   playerMMR,
			OpponentMMR: opponentMMR,
			IsBnlMatch:  leagueMembers[opponent.BattleTag],
			OpponentTag: opponent.BattleTag,
		}
		if player.Won {
			entry.Result = OutcomeWin
			wins++
			totalPoints += winPoints(mmrDiff)
		} else {
			entry.Result = OutcomeLoss
			losses++
			totalPoints += lossPoints(mmrDiff)
		}
		history = append(history, entry)
	}

	achievements := EvaluateAchievements(EvalInput{
		Wins:       wins,
		Losses:     losses,
		Points:     totalPoints,
		TotalGames: len(bucket),
		History:    history,
		MMR:        currentMMR,
	})
	for _, key := range achievements {
		bonus, known := cfg.Bonuses[key]
		if !known {
			log.Error("Unknown achievement key awarded by evaluator, skipping bonus", "key", key, "battleTag", battleTag, "race", race)
			continue
		}
		totalPoints += bonus
	}
	if achievements == nil {
		achievements = []string{}
	}

	recent := reverseHistory(history)
	if len(recent) > cfg.HistoryLimit {
		recent = recent[:cfg.HistoryLimit]
	}

	return RaceProfile{
		Race:         race,
		MMR:          currentMMR,
		Wins:         wins,
		Losses:       losses,
		Points:       totalPoints,
		Achievements: achievements,
		MatchHistory: recent,
		MatchCount:   len(bucket),
	}
}

// splitSides identifies the tracked player's slot and the sole opponent.
// Matches where either side does not have exactly one player are rejected,
// a safety net on top of the game mode filter.
func splitSides(match ladder.MatchRecord, battleTag string) (player, opponent ladder.PlayerSlot, ok bool) {
	for _, team := range match.Teams {
		if len(team.Players) != 1 {
			return ladder.PlayerSlot{}, ladder.PlayerSlot{}, false
		}
	}
	playerFound, opponentFound := false, false
	for _, team := range match.Teams {
		slot := team.Players[0]
		if slot.BattleTag == battleTag {
			player = slot
			playerFound = true
		} else if !opponentFound {
			opponent = slot
			opponentFound = true
		}
	}
	return player, opponent, playerFound && opponentFound
}

// effectiveMMR prefers the pre-match rating, falling back to the post-match
// rating, falling back to a neutral default.
func effectiveMMR(slot ladder.PlayerSlot) int {
	if slot.OldMMR > 0 {
		return slot.OldMMR
	}
	if slot.CurrentMMR > 0 {
		return slot.CurrentMMR
	}
	return fallbackMMR
}

func winPoints(mmrDiff int) int {
	switch {
	case mmrDiff >= 20:
		return winPointsUnderdog
	case mmrDiff >= -19:
		return winPointsEven
	default:
		return winPointsFavorite
	}
}

func lossPoints(mmrDiff int) int {
	switch {
	case mmrDiff <= -20:
		return lossPointsFavorite
	case mmrDiff <= 19:
		return lossPointsEven
	default:
		return lossPointsUnderdog
	}
}

func reverseHistory(history []HistoryEntry) []HistoryEntry {
	reversed := make([]HistoryEntry, len(history))
	for i, entry := range history {
		reversed[len(history)-1-i] = entry
	}
	return reversed
}
