package http

import (
	"net/http"

	"github.com/bnl-gg/league-tracker/internal/config"
	"github.com/bnl-gg/league-tracker/internal/ladder"
	"github.com/bnl-gg/league-tracker/internal/league"
	"github.com/bnl-gg/league-tracker/internal/matchcache"
	"github.com/bnl-gg/league-tracker/internal/metrics"
	"github.com/bnl-gg/league-tracker/internal/notifier"
	"github.com/bnl-gg/league-tracker/internal/pubsub"
	"github.com/bnl-gg/league-tracker/internal/refresher"
)

type Server struct {
	Store          league.Store
	Cache          matchcache.Cache
	Ladder         ladder.Client
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Refresher      *refresher.Refresher
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
