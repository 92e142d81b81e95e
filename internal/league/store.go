package league

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/bnl-gg/league-tracker/internal/stats"
)

// New creates a new league Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) AddMember(battleTag, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO members (battle_tag, name, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT(battle_tag) DO UPDATE SET name = excluded.name;
	`, battleTag, name, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to add member %s: %w", battleTag, err)
	}
	log.Info("Added league member", "battleTag", battleTag, "name", name)
	return nil
}

func (s *store) RemoveMember(battleTag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM members WHERE battle_tag = ?", battleTag)
	if err != nil {
		return fmt.Errorf("failed to remove member %s: %w", battleTag, err)
	}
	log.Info("Removed league member", "battleTag", battleTag)
	return nil
}

func (s *store) GetMembers() ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT battle_tag, name, added_at FROM members ORDER BY battle_tag")
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		var name sql.NullString
		if err := rows.Scan(&m.BattleTag, &name, &m.AddedAt); err != nil {
			log.Error("Failed to scan member row", "error", err)
			continue
		}
		m.Name = name.String
		members = append(members, m)
	}
	return members, nil
}

func (s *store) GetMemberTags() ([]string, error) {
	members, err := s.GetMembers()
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(members))
	for _, m := range members {
		tags = append(tags, m.BattleTag)
	}
	return tags, nil
}

func (s *store) IsMember(battleTag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM members WHERE battle_tag = ?)", battleTag).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if member exists", "error", err, "battleTag", battleTag)
		return false
	}
	return exists
}

// UpsertPlayerStats writes a freshly computed snapshot for one player.
// Achievements are monotonic: the newly computed set is unioned with
// whatever was previously persisted for each race before writing, so an
// achievement is never lost when recent form no longer qualifies.
func (s *store) UpsertPlayerStats(playerStats *PlayerStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin stats transaction: %w", err)
	}
	defer tx.Rollback()

	var existingJSON sql.NullString
	err = tx.QueryRow("SELECT race_stats_json FROM player_stats WHERE battle_tag = ?", playerStats.BattleTag).Scan(&existingJSON)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read existing stats for %s: %w", playerStats.BattleTag, err)
	}

	if existingJSON.Valid && existingJSON.String != "" {
		var existing []stats.RaceProfile
		if err := json.Unmarshal([]byte(existingJSON.String), &existing); err != nil {
			log.Error("Failed to unmarshal existing race stats, skipping achievement merge", "error", err, "battleTag", playerStats.BattleTag)
		} else {
			mergeAchievements(playerStats.RaceStats, existing)
		}
	}

	raceStatsJSON, err := json.Marshal(playerStats.RaceStats)
	if err != nil {
		return fmt.Errorf("failed to marshal race stats for %s: %w", playerStats.BattleTag, err)
	}

	_, err = tx.Exec(`
		INSERT INTO player_stats (battle_tag, points, wins, losses, mmr, race_stats_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(battle_tag) DO UPDATE SET
			points = excluded.points,
			wins = excluded.wins,
			losses = excluded.losses,
			mmr = excluded.mmr,
			race_stats_json = excluded.race_stats_json,
			updated_at = excluded.updated_at;
	`, playerStats.BattleTag, playerStats.Points, playerStats.Wins, playerStats.Losses, playerStats.MMR, string(raceStatsJSON), playerStats.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert stats for %s: %w", playerStats.BattleTag, err)
	}

	return tx.Commit()
}

// mergeAchievements unions previously earned achievements into the fresh
// profiles, per race. Fresh profiles keep their computed points; earned
// bonuses are already baked into historical totals served earlier.
func mergeAchievements(fresh []stats.RaceProfile, existing []stats.RaceProfile) {
	previous := make(map[int][]string, len(existing))
	for _, p := range existing {
		previous[int(p.Race)] = p.Achievements
	}
	for i := range fresh {
		earned, ok := previous[int(fresh[i].Race)]
		if !ok {
			continue
		}
		set := make(map[string]bool, len(fresh[i].Achievements)+len(earned))
		for _, key := range fresh[i].Achievements {
			set[key] = true
		}
		for _, key := range earned {
			set[key] = true
		}
		merged := make([]string, 0, len(set))
		for key := range set {
			merged = append(merged, key)
		}
		sort.Strings(merged)
		fresh[i].Achievements = merged
	}
}

func (s *store) GetPlayerStats(battleTag string) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT battle_tag, points, wins, losses, mmr, race_stats_json, updated_at
		FROM player_stats
		WHERE battle_tag = ?
	`, battleTag)

	playerStats, err := scanPlayerStats(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stats for %s: %w", battleTag, err)
	}
	return playerStats, nil
}

func (s *store) GetAllPlayerStats() ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT battle_tag, points, wins, losses, mmr, race_stats_json, updated_at
		FROM player_stats
		ORDER BY points DESC, wins DESC, battle_tag ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query player stats: %w", err)
	}
	defer rows.Close()

	var all []PlayerStats
	for rows.Next() {
		playerStats, err := scanPlayerStats(rows)
		if err != nil {
			log.Error("Failed to scan player stats row", "error", err)
			continue
		}
		all = append(all, *playerStats)
	}
	return all, nil
}

// scanPlayerStats is a helper to scan a single player stats row.
func scanPlayerStats(scanner interface{ Scan(...any) error }) (*PlayerStats, error) {
	var playerStats PlayerStats
	var raceStatsJSON sql.NullString

	err := scanner.Scan(
		&playerStats.BattleTag, &playerStats.Points, &playerStats.Wins, &playerStats.Losses,
		&playerStats.MMR, &raceStatsJSON, &playerStats.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if raceStatsJSON.Valid && raceStatsJSON.String != "" {
		if err := json.Unmarshal([]byte(raceStatsJSON.String), &playerStats.RaceStats); err != nil {
			log.Error("Failed to unmarshal race_stats_json", "error", err, "battleTag", playerStats.BattleTag)
		}
	}
	if playerStats.RaceStats == nil {
		playerStats.RaceStats = []stats.RaceProfile{}
	}
	return &playerStats, nil
}

func (s *store) CreateTeam(name string, memberTags []string) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin team transaction: %w", err)
	}
	defer tx.Rollback()

	team := &Team{
		ID:         uuid.New().String(),
		Name:       name,
		MemberTags: memberTags,
		CreatedAt:  time.Now().Unix(),
	}

	_, err = tx.Exec("INSERT INTO teams (id, name, created_at) VALUES (?, ?, ?)", team.ID, team.Name, team.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	for _, tag := range memberTags {
		_, err = tx.Exec("INSERT INTO team_members (team_id, battle_tag) VALUES (?, ?)", team.ID, tag)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to team: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit team transaction: %w", err)
	}
	log.Info("Created team", "id", team.ID, "name", name, "members", len(memberTags))
	return team, nil
}

func (s *store) GetTeams() ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, created_at FROM teams ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var team Team
		if err := rows.Scan(&team.ID, &team.Name, &team.CreatedAt); err != nil {
			log.Error("Failed to scan team row", "error", err)
			continue
		}
		teams = append(teams, team)
	}

	for i := range teams {
		memberRows, err := s.db.Query("SELECT battle_tag FROM team_members WHERE team_id = ? ORDER BY battle_tag", teams[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to query team members: %w", err)
		}
		for memberRows.Next() {
			var tag string
			if err := memberRows.Scan(&tag); err != nil {
				log.Error("Failed to scan team member row", "error", err)
				continue
			}
			teams[i].MemberTags = append(teams[i].MemberTags, tag)
		}
		memberRows.Close()
	}
	return teams, nil
}

func (s *store) DeleteTeam(teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM teams WHERE id = ?", teamID)
	if err != nil {
		return fmt.Errorf("failed to delete team %s: %w", teamID, err)
	}
	return nil
}

func (s *store) ScheduleMatch(player1Tag, player2Tag string, scheduledAt int64) (*ScheduledMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match := &ScheduledMatch{
		ID:          uuid.New().String(),
		Player1Tag:  player1Tag,
		Player2Tag:  player2Tag,
		ScheduledAt: scheduledAt,
		Status:      MatchScheduled,
		CreatedAt:   time.Now().Unix(),
	}

	_, err := s.db.Exec(`
		INSERT INTO scheduled_matches (id, player1_tag, player2_tag, scheduled_at, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, match.ID, match.Player1Tag, match.Player2Tag, match.ScheduledAt, string(match.Status), match.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule match: %w", err)
	}
	log.Info("Scheduled match", "id", match.ID, "player1", player1Tag, "player2", player2Tag)
	return match, nil
}

func (s *store) GetScheduledMatches() ([]ScheduledMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, player1_tag, player2_tag, scheduled_at, status, winner_tag, created_at
		FROM scheduled_matches
		ORDER BY scheduled_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled matches: %w", err)
	}
	defer rows.Close()

	var matches []ScheduledMatch
	for rows.Next() {
		var match ScheduledMatch
		var status string
		var winnerTag sql.NullString
		if err := rows.Scan(&match.ID, &match.Player1Tag, &match.Player2Tag, &match.ScheduledAt, &status, &winnerTag, &match.CreatedAt); err != nil {
			log.Error("Failed to scan scheduled match row", "error", err)
			continue
		}
		match.Status = MatchStatus(status)
		match.WinnerTag = winnerTag.String
		matches = append(matches, match)
	}
	return matches, nil
}

func (s *store) ReportMatchResult(matchID, winnerTag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(`
		UPDATE scheduled_matches SET status = ?, winner_tag = ?
		WHERE id = ? AND status = ?
	`, string(MatchPlayed), winnerTag, matchID, string(MatchScheduled))
	if err != nil {
		return fmt.Errorf("failed to report match result for %s: %w", matchID, err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("scheduled match %s not found or already resolved", matchID)
	}
	return nil
}

func (s *store) CancelScheduledMatch(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(`
		UPDATE scheduled_matches SET status = ?
		WHERE id = ? AND status = ?
	`, string(MatchCanceled), matchID, string(MatchScheduled))
	if err != nil {
		return fmt.Errorf("failed to cancel match %s: %w", matchID, err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("scheduled match %s not found or already resolved", matchID)
	}
	return nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"scheduled_matches", "team_members", "teams", "player_stats", "match_cache", "members"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}
