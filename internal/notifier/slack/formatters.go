package slack

import (
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/bnl-gg/league-tracker/internal/ladder"
	"github.com/bnl-gg/league-tracker/internal/league"
)

// formatAchievementUnlocked creates the Slack message for newly earned achievements using Block Kit.
func (s *Notifier) formatAchievementUnlocked(battleTag string, race ladder.Race, keys []string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Achievement unlocked! 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s (%s)", battleTag, race)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	var lines []string
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("• %s", key))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatRefreshSummary creates the Slack message for a finished refresh run.
func (s *Notifier) formatRefreshSummary(succeeded, failed int, durationSeconds float64) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📊 Stats refreshed", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Players updated: %d\nFailures: %d\nDuration: %.1fs", succeeded, failed, durationSeconds)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates the Slack message for the current standings.
func (s *Notifier) formatLeaderboard(standings []league.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏅 League standings 🏅", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var lines []string
	for i, stat := range standings {
		if i >= 10 {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s: %d pts (%dW/%dL)", i+1, stat.BattleTag, stat.Points, stat.Wins, stat.Losses))
	}
	if len(lines) == 0 {
		lines = append(lines, "No stats computed yet.")
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatUpcomingMatch creates the Slack message for a newly scheduled match.
func (s *Notifier) formatUpcomingMatch(match *league.ScheduledMatch) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚔️ Match scheduled! ⚔️", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s vs %s\nTime: %s", match.Player1Tag, match.Player2Tag,
		time.Unix(match.ScheduledAt, 0).Format("Monday 02 Jan, 15:04"))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
