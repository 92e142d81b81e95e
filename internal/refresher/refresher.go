package refresher

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/bnl-gg/league-tracker/internal/config"
	"github.com/bnl-gg/league-tracker/internal/ladder"
	"github.com/bnl-gg/league-tracker/internal/league"
	"github.com/bnl-gg/league-tracker/internal/matchcache"
	"github.com/bnl-gg/league-tracker/internal/metrics"
	"github.com/bnl-gg/league-tracker/internal/notifier"
	"github.com/bnl-gg/league-tracker/internal/pubsub"
	"github.com/bnl-gg/league-tracker/internal/stats"
)

// New creates a new Refresher.
func New(store league.Store, cache matchcache.Cache, ladderClient ladder.Client, notif notifier.Notifier, pubsubClient pubsub.PubSubClient, metricsSvc metrics.Metrics, cfg config.RefreshConfig) *Refresher {
	engine := stats.DefaultEngineConfig()
	engine.SeasonStart = cfg.SeasonStart.Unix()
	return &Refresher{
		store:    store,
		cache:    cache,
		ladder:   ladderClient,
		notifier: notif,
		pubsub:   pubsubClient,
		metrics:  metricsSvc,
		cfg:      cfg,
		engine:   engine,
		sleep:    time.Sleep,
	}
}

// Start runs the refresh loop until the context is canceled.
func (r *Refresher) Start(ctx context.Context) {
	log.Info("Starting stats refresher", "interval", r.cfg.Interval)
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stats refresher stopped")
			return
		case <-ticker.C:
			r.RunOnce(false)
		}
	}
}

// RunOnce performs a full refresh of every league member. Runs are
// serialized: if one is already in flight, the new one is skipped.
// Failures are per-player and never abort the batch.
func (r *Refresher) RunOnce(dryRun bool) RunSummary {
	if !r.runMu.TryLock() {
		log.Warn("Refresh already in progress, skipping this run")
		return RunSummary{Skipped: true}
	}
	defer r.runMu.Unlock()

	start := time.Now()
	r.metrics.IncRefreshRuns()
	log.Info("Starting stats refresh run", "dryRun", dryRun)

	members, err := r.store.GetMembers()
	if err != nil {
		log.Error("Failed to load league members, aborting run", "error", err)
		return RunSummary{Failed: 1, Duration: time.Since(start)}
	}
	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m.BattleTag] = true
	}

	summary := RunSummary{}
	for i, member := range members {
		if i > 0 {
			// Politeness delay between ladder API calls.
			r.sleep(r.cfg.RequestDelay)
		}
		if err := r.refreshPlayer(member.BattleTag, memberSet, dryRun); err != nil {
			log.Error("Failed to refresh player", "battleTag", member.BattleTag, "error", err)
			r.metrics.IncRefreshFailures()
			summary.Failed++
			continue
		}
		r.metrics.IncPlayersRefreshed()
		summary.Succeeded++
	}

	summary.Duration = time.Since(start)
	r.metrics.ObserveRefreshDuration(summary.Duration.Seconds())
	log.Info("Stats refresh run finished", "succeeded", summary.Succeeded, "failed", summary.Failed, "duration", summary.Duration)

	if !dryRun {
		event := pubsub.RefreshEvent{
			Succeeded:  summary.Succeeded,
			Failed:     summary.Failed,
			FinishedAt: time.Now().Unix(),
		}
		if err := r.pubsub.SendMessage(pubsub.TopicStatsRefreshed, event); err != nil {
			log.Error("Failed to publish refresh event", "error", err)
		}
	}
	if summary.Failed > 0 {
		if err := r.notifier.SendRefreshSummary(summary.Succeeded, summary.Failed, summary.Duration.Seconds(), dryRun); err != nil {
			log.Error("Failed to send refresh summary", "error", err)
		}
	}
	return summary
}

// refreshPlayer recomputes and persists one player's stats from the match
// cache, re-fetching the cache only when it is absent or expired.
func (r *Refresher) refreshPlayer(battleTag string, memberSet map[string]bool, dryRun bool) error {
	currentMMR, err := r.ladder.GetPlayerMMR(battleTag)
	if err != nil {
		// MMR is a best-effort enrichment; computation proceeds with
		// whatever the match records carry.
		log.Warn("Failed to refresh MMR, using last observed value", "battleTag", battleTag, "error", err)
		currentMMR = 0
	}

	matches := r.cachedMatches(battleTag)

	computeStart := time.Now()
	profiles := stats.ComputeProfiles(battleTag, matches, memberSet, r.engine)
	r.metrics.ObserveComputeDuration(time.Since(computeStart).Seconds())

	playerStats := aggregate(battleTag, profiles, currentMMR)

	previous, err := r.store.GetPlayerStats(battleTag)
	if err != nil {
		log.Warn("Failed to read previous stats, achievement diff unavailable", "battleTag", battleTag, "error", err)
	}
	newlyUnlocked := diffAchievements(previous, profiles)

	if dryRun {
		log.Info("[Dry Run] Would upsert player stats", "battleTag", battleTag, "points", playerStats.Points, "wins", playerStats.Wins, "losses", playerStats.Losses)
		return nil
	}

	if err := r.store.UpsertPlayerStats(playerStats); err != nil {
		return err
	}

	for race, keys := range newlyUnlocked {
		log.Info("Player unlocked achievements", "battleTag", battleTag, "race", race, "keys", keys)
		if err := r.notifier.SendAchievementUnlocked(battleTag, race, keys, dryRun); err != nil {
			log.Error("Failed to send achievement notification", "battleTag", battleTag, "error", err)
		}
		event := pubsub.AchievementEvent{BattleTag: battleTag, Race: int(race), Keys: keys}
		if err := r.pubsub.SendMessage(pubsub.TopicAchievementsUnlocked, event); err != nil {
			log.Error("Failed to publish achievement event", "battleTag", battleTag, "error", err)
		}
	}
	return nil
}

// cachedMatches reads the player's cached history, re-fetching from the
// ladder when the entry is absent or past its TTL. A failed re-fetch falls
// back to the stale entry; staleness is tolerated, not corrected.
func (r *Refresher) cachedMatches(battleTag string) []ladder.MatchRecord {
	entry, err := r.cache.Get(battleTag)
	if err != nil {
		log.Error("Failed to read match cache", "battleTag", battleTag, "error", err)
		entry = nil
	}

	if entry != nil && !entry.Expired(time.Now().Unix()) {
		return entry.Matches
	}

	r.sleep(r.cfg.RequestDelay)
	fresh, err := r.ladder.GetMatchHistory(battleTag)
	if err != nil {
		log.Warn("Failed to re-fetch match history, serving stale cache", "battleTag", battleTag, "error", err)
		if entry != nil {
			return entry.Matches
		}
		return nil
	}
	if err := r.cache.Put(battleTag, fresh, r.cfg.CacheTTL); err != nil {
		log.Error("Failed to update match cache", "battleTag", battleTag, "error", err)
	}
	return fresh
}

// aggregate sums the per-race profiles into the persisted overall stats.
// When the live MMR lookup failed, the highest per-race MMR stands in.
func aggregate(battleTag string, profiles []stats.RaceProfile, currentMMR int) *league.PlayerStats {
	playerStats := &league.PlayerStats{
		BattleTag: battleTag,
		MMR:       currentMMR,
		RaceStats: profiles,
		UpdatedAt: time.Now().Unix(),
	}
	for _, p := range profiles {
		playerStats.Points += p.Points
		playerStats.Wins += p.Wins
		playerStats.Losses += p.Losses
		if currentMMR == 0 && p.MMR > playerStats.MMR {
			playerStats.MMR = p.MMR
		}
	}
	return playerStats
}

// diffAchievements returns the per-race achievement keys present in the
// fresh profiles but not in the previously persisted ones.
func diffAchievements(previous *league.PlayerStats, profiles []stats.RaceProfile) map[ladder.Race][]string {
	earned := make(map[ladder.Race]map[string]bool)
	if previous != nil {
		for _, p := range previous.RaceStats {
			set := make(map[string]bool, len(p.Achievements))
			for _, key := range p.Achievements {
				set[key] = true
			}
			earned[p.Race] = set
		}
	}

	newlyUnlocked := make(map[ladder.Race][]string)
	for _, p := range profiles {
		for _, key := range p.Achievements {
			if !earned[p.Race][key] {
				newlyUnlocked[p.Race] = append(newlyUnlocked[p.Race], key)
			}
		}
	}
	return newlyUnlocked
}
