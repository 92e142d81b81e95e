package refresher

import (
	"sync"
	"time"

	"github.com/bnl-gg/league-tracker/internal/config"
	"github.com/bnl-gg/league-tracker/internal/ladder"
	"github.com/bnl-gg/league-tracker/internal/league"
	"github.com/bnl-gg/league-tracker/internal/matchcache"
	"github.com/bnl-gg/league-tracker/internal/metrics"
	"github.com/bnl-gg/league-tracker/internal/notifier"
	"github.com/bnl-gg/league-tracker/internal/pubsub"
	"github.com/bnl-gg/league-tracker/internal/stats"
)

// Refresher drives the periodic recompute cycle: pull MMR and cached
// matches for every member, run the stats engine, and persist the result.
type Refresher struct {
	store    league.Store
	cache    matchcache.Cache
	ladder   ladder.Client
	notifier notifier.Notifier
	pubsub   pubsub.PubSubClient
	metrics  metrics.Metrics
	cfg      config.RefreshConfig
	engine   stats.EngineConfig

	// runMu serializes runs so an overlapping tick is skipped rather than
	// doubling the external API load.
	runMu sync.Mutex

	// sleep is swapped out in tests to avoid real politeness delays.
	sleep func(time.Duration)
}

// RunSummary reports the outcome of a single refresh run.
type RunSummary struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   bool          `json:"skipped"`
	Duration  time.Duration `json:"duration"`
}
