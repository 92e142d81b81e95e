package pubsub

import "cloud.google.com/go/pubsub"

// Topics published by the league tracker.
const (
	TopicStatsRefreshed       = "league-stats-refreshed"
	TopicAchievementsUnlocked = "league-achievements-unlocked"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// RefreshEvent is the payload published after every completed refresh run.
type RefreshEvent struct {
	Succeeded  int   `msgpack:"succeeded"`
	Failed     int   `msgpack:"failed"`
	FinishedAt int64 `msgpack:"finishedAt"`
}

// AchievementEvent is the payload published when a player unlocks achievements.
type AchievementEvent struct {
	BattleTag string   `msgpack:"battleTag"`
	Race      int      `msgpack:"race"`
	Keys      []string `msgpack:"keys"`
}
