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

func NewServer(store league.Store, cache matchcache.Cache, ladderClient ladder.Client, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notif notifier.Notifier, refresherSvc *refresher.Refresher, pubsubClient pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Cache:          cache,
		Ladder:         ladderClient,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notif,
		Refresher:      refresherSvc,
		Router:         http.NewServeMux(),
		pubsub:         pubsubClient,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares later, like an
	// authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/members", Chain(s.MembersHandler(), paramsMiddleware))
	s.Router.Handle("/stats", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/player-stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/teams", Chain(s.TeamsHandler(), paramsMiddleware))
	s.Router.Handle("/schedule", Chain(s.ScheduleHandler(), paramsMiddleware))
	s.Router.Handle("/schedule/result", Chain(s.ReportResultHandler(), paramsMiddleware))
	s.Router.Handle("/schedule/cancel", Chain(s.CancelMatchHandler(), paramsMiddleware))
	s.Router.Handle("/fetch", Chain(s.FetchMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/refresh", Chain(s.RefreshStatsHandler(), paramsMiddleware))
	s.Router.Handle("/notify/leaderboard", Chain(s.NotifyLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/achievements", Chain(s.AchievementPushHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
