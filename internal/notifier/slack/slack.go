package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
	"github.com/bnl-gg/league-tracker/internal/ladder"
	"github.com/bnl-gg/league-tracker/internal/league"
	"github.com/bnl-gg/league-tracker/internal/metrics"
	"github.com/bnl-gg/league-tracker/internal/notifier"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = (*Notifier)(nil)

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendAchievementUnlocked announces achievements newly earned by a player on a race.
func (s *Notifier) SendAchievementUnlocked(battleTag string, race ladder.Race, keys []string, dryRun bool) error {
	msg := s.formatAchievementUnlocked(battleTag, race, keys)
	return s.sendMessage(msg, dryRun)
}

// SendRefreshSummary posts the outcome of a completed stats refresh run.
func (s *Notifier) SendRefreshSummary(succeeded, failed int, durationSeconds float64, dryRun bool) error {
	msg := s.formatRefreshSummary(succeeded, failed, durationSeconds)
	return s.sendMessage(msg, dryRun)
}

// SendLeaderboard posts the current standings.
func (s *Notifier) SendLeaderboard(standings []league.PlayerStats, dryRun bool) error {
	msg := s.formatLeaderboard(standings)
	return s.sendMessage(msg, dryRun)
}

// SendUpcomingMatch announces a newly scheduled 1v1 match.
func (s *Notifier) SendUpcomingMatch(match *league.ScheduledMatch, dryRun bool) error {
	msg := s.formatUpcomingMatch(match)
	return s.sendMessage(msg, dryRun)
}
