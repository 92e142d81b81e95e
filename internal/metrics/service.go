package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	RefreshRuns        prometheus.Counter
	PlayersRefreshed   prometheus.Counter
	RefreshFailures    prometheus.Counter
	RefreshDuration    prometheus.Histogram
	ComputeDuration    prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RefreshRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_refresh_runs_total",
			Help: "The total number of stats refresh runs.",
		}),
		PlayersRefreshed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_players_refreshed_total",
			Help: "The total number of players successfully refreshed.",
		}),
		RefreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_refresh_failures_total",
			Help: "The total number of per-player refresh failures.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "league_refresh_duration_seconds",
			Help:    "The duration of a full stats refresh run.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "league_compute_duration_seconds",
			Help:    "The duration of a single player's profile computation.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RefreshRuns,
		s.PlayersRefreshed,
		s.RefreshFailures,
		s.RefreshDuration,
		s.ComputeDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRefreshRuns() {
	s.RefreshRuns.Inc()
}

func (s *Service) IncPlayersRefreshed() {
	s.PlayersRefreshed.Inc()
}

func (s *Service) IncRefreshFailures() {
	s.RefreshFailures.Inc()
}

func (s *Service) ObserveRefreshDuration(duration float64) {
	s.RefreshDuration.Observe(duration)
}

func (s *Service) ObserveComputeDuration(duration float64) {
	s.ComputeDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
