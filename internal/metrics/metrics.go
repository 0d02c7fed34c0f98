package metrics

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cycle kinds and results used as label values.
const (
	KindRepos  = "repos"
	KindStatus = "status"

	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

var (
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fourthwall_cycles_total",
		Help: "Aggregation cycles by kind and result",
	}, []string{"kind", "result"})
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fourthwall_api_requests_total",
		Help: "API requests by response status code",
	}, []string{"code"})
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fourthwall_cache_hits_total",
		Help: "Responses served from the response cache",
	})
	Repositories = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fourthwall_repositories",
		Help: "Repositories in the merged set",
	})
	ListItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fourthwall_list_items",
		Help: "Items in the displayed list",
	})
	ImportantUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fourthwall_important_users",
		Help: "Logins in the important users set",
	})
	CycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fourthwall_cycle_duration_seconds",
		Help:    "Aggregation cycle duration",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"kind"})
)

// Register mounts /metrics on r.
func Register(r chi.Router) {
	r.Handle("/metrics", promhttp.Handler())
}
