package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Remote table metrics
	TableRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reel_table_requests_total",
			Help: "Total number of remote table calls by operation and result",
		},
		[]string{"op", "result"},
	)

	TableRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reel_table_request_duration_seconds",
			Help:    "Remote table call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reel_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reel_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reel_api_rate_limited_total",
			Help: "Total number of API requests rejected by the rate limiter",
		},
	)
)

func init() {
	prometheus.MustRegister(TableRequestsTotal)
	prometheus.MustRegister(TableRequestDuration)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(RateLimitedTotal)
}

// CollectionSource reports the working set size and backend connectivity
type CollectionSource interface {
	Len() int
	Connected() bool
}

// WatchCollection exposes gauges that read the collection at scrape time.
// Calling it again replaces the previous source.
func WatchCollection(src CollectionSource) error {
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "reel_movies_total",
				Help: "Number of movies in the working set",
			},
			func() float64 { return float64(src.Len()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "reel_backend_connected",
				Help: "Whether initialization reached the remote table (1 = connected)",
			},
			func() float64 {
				if src.Connected() {
					return 1
				}
				return 0
			},
		),
	}

	for _, g := range gauges {
		if err := prometheus.Register(g); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
			prometheus.Unregister(already.ExistingCollector)
			if err := prometheus.Register(g); err != nil {
				return err
			}
		}
	}
	return nil
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
