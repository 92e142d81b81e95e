package notifier

import (
	"github.com/bnl-gg/league-tracker/internal/ladder"
	"github.com/bnl-gg/league-tracker/internal/league"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendAchievementUnlocked announces achievements newly earned by a player on a race.
	SendAchievementUnlocked(battleTag string, race ladder.Race, keys []string, dryRun bool) error
	// SendRefreshSummary posts the outcome of a completed stats refresh run.
	SendRefreshSummary(succeeded, failed int, durationSeconds float64, dryRun bool) error
	// SendLeaderboard posts the current standings.
	SendLeaderboard(standings []league.PlayerStats, dryRun bool) error
	// SendUpcomingMatch announces a newly scheduled 1v1 match.
	SendUpcomingMatch(match *league.ScheduledMatch, dryRun bool) error
}
