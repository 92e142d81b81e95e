package config

import "time"

// Config holds all runtime configuration for the league tracker.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Ladder        LadderConfig
	Refresh       RefreshConfig
	Slack         SlackConfig
	ProjectID     string
}

// TursoConfig holds the connection details for a Turso primary database.
// Both fields are empty when running against a local SQLite file.
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// LadderConfig holds the settings for the external ranked-ladder API.
type LadderConfig struct {
	BaseURL  string
	Gateway  int
	Season   int
	PageSize int
}

// RefreshConfig controls the periodic stats recompute cycle.
type RefreshConfig struct {
	// Interval between scheduler runs.
	Interval time.Duration
	// CacheTTL is how long a cached match history is considered fresh.
	CacheTTL time.Duration
	// RequestDelay is the politeness delay between ladder API calls.
	RequestDelay time.Duration
	// SeasonStart is the recency cutoff applied to long match histories.
	SeasonStart time.Time
}

// SlackConfig holds the Slack credentials for the notifier.
type SlackConfig struct {
	Token     string
	ChannelID string
}
