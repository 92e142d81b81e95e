package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	getEnvInt := func(key string, fallback int) int {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Fatalf("Error: Environment variable %s must be an integer, got %q.", key, value)
		}
		return n
	}

	// The season start is a hard boundary for point scoring, not a rolling window.
	seasonStartStr := getEnvOr("SEASON_START", "2025-11-27T00:00:00Z")
	seasonStart, err := time.Parse(time.RFC3339, seasonStartStr)
	if err != nil {
		log.Fatalf("Error: SEASON_START must be RFC3339, got %q: %s", seasonStartStr, err)
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		Ladder: LadderConfig{
			BaseURL:  getEnvOr("LADDER_API_URL", "https://ladder.w3l.gg"),
			Gateway:  getEnvInt("LADDER_GATEWAY", 20),
			Season:   getEnvInt("LADDER_SEASON", 21),
			PageSize: getEnvInt("LADDER_PAGE_SIZE", 100),
		},
		Refresh: RefreshConfig{
			Interval:     time.Duration(getEnvInt("REFRESH_INTERVAL_MINUTES", 10)) * time.Minute,
			CacheTTL:     time.Duration(getEnvInt("MATCH_CACHE_TTL_MINUTES", 30)) * time.Minute,
			RequestDelay: time.Duration(getEnvInt("LADDER_REQUEST_DELAY_MS", 1000)) * time.Millisecond,
			SeasonStart:  seasonStart,
		},
		Slack: SlackConfig{
			Token:     getEnvOr("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvOr("SLACK_CHANNEL_ID", ""),
		},
		ProjectID: getEnv("GCP_PROJECT"),
	}
	return cfg
}
