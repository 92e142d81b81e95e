package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bnl-gg/league-tracker/internal/ladder"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func racePtr(r ladder.Race) *ladder.Race { return &r }

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	roster := []struct {
		BattleTag string
		Name      string
		Race      ladder.Race
	}{
		{"seedling#1001", "Seeder Player A", ladder.RaceHuman},
		{"seedling#1002", "Seeder Player B", ladder.RaceOrc},
		{"seedling#1003", "Seeder Player C", ladder.RaceNightElf},
		{"seedling#1004", "Seeder Player D", ladder.RaceUndead},
	}

	now := time.Now().Unix()
	valueStrings := make([]string, 0, len(roster))
	valueArgs := make([]interface{}, 0, len(roster)*3)
	for _, m := range roster {
		valueStrings = append(valueStrings, "(?, ?, ?)")
		valueArgs = append(valueArgs, m.BattleTag, m.Name, now)
	}
	stmt := fmt.Sprintf("INSERT OR IGNORE INTO members (battle_tag, name, added_at) VALUES %s;", strings.Join(valueStrings, ","))
	if _, err := db.Exec(stmt, valueArgs...); err != nil {
		log.Fatalf("Failed to insert roster members: %s", err)
	}
	log.Info("Ensured roster members exist.", "count", len(roster))

	const matchesPerPlayer = 40

	log.Info("Preparing to seed cached match histories...", "per_player", matchesPerPlayer)
	startTime := time.Now()

	for _, m := range roster {
		matches := make([]ladder.MatchRecord, 0, matchesPerPlayer)
		for i := 0; i < matchesPerPlayer; i++ {
			opponent := roster[rand.Intn(len(roster))]
			if opponent.BattleTag == m.BattleTag {
				opponent = roster[(rand.Intn(len(roster)-1)+1)%len(roster)]
			}
			won := rand.Intn(2) == 0
			matchTime := time.Now().Add(-time.Duration(rand.Intn(30*24)) * time.Hour)
			matches = append(matches, ladder.MatchRecord{
				StartTime: matchTime.Unix(),
				GameMode:  1,
				Teams: []ladder.Team{
					{Players: []ladder.PlayerSlot{{
						BattleTag:  m.BattleTag,
						Race:       racePtr(m.Race),
						OldMMR:     1500 + rand.Intn(200) - 100,
						CurrentMMR: 1500 + rand.Intn(200) - 100,
						Won:        won,
					}}},
					{Players: []ladder.PlayerSlot{{
						BattleTag:  opponent.BattleTag,
						Race:       racePtr(opponent.Race),
						OldMMR:     1500 + rand.Intn(200) - 100,
						CurrentMMR: 1500 + rand.Intn(200) - 100,
						Won:        !won,
					}}},
				},
			})
		}

		blob, err := msgpack.Marshal(matches)
		if err != nil {
			log.Fatalf("Failed to marshal matches for %s: %s", m.BattleTag, err)
		}
		expiresAt := time.Now().Add(24 * time.Hour).Unix()
		_, err = db.Exec(`
			INSERT INTO match_cache (battle_tag, match_data, last_updated, expires_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(battle_tag) DO UPDATE SET
				match_data = excluded.match_data,
				last_updated = excluded.last_updated,
				expires_at = excluded.expires_at;`,
			m.BattleTag, blob, now, expiresAt)
		if err != nil {
			log.Fatalf("Failed to seed match cache for %s: %s", m.BattleTag, err)
		}
		log.Info("Seeded match cache", "battleTag", m.BattleTag, "matches", len(matches))
	}

	duration := time.Since(startTime)
	log.Info("Successfully seeded cached match histories.", "duration", duration)
}
