package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast pipeline and the web app.
type Metrics struct {
	// Pipeline runs.
	RawRowsParsed      prometheus.Counter
	RowsDroppedClean   prometheus.Counter
	ForecastRows       prometheus.Gauge
	CriticalStates     prometheus.Gauge
	TrainingDuration   prometheus.Histogram
	ForecastDuration   prometheus.Histogram
	ForecastsPublished prometheus.Counter
	PublishErrors      prometheus.Counter

	// HTTP serving.
	HTTPRequests    *prometheus.CounterVec   // labels: route, status
	HTTPDuration    *prometheus.HistogramVec // labels: route
	ForecastReloads prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RawRowsParsed,
		m.RowsDroppedClean,
		m.ForecastRows,
		m.CriticalStates,
		m.TrainingDuration,
		m.ForecastDuration,
		m.ForecastsPublished,
		m.PublishErrors,
		m.HTTPRequests,
		m.HTTPDuration,
		m.ForecastReloads,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RawRowsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hospital_forecast",
			Name:      "raw_rows_parsed_total",
			Help:      "Raw CDC export rows parsed during cleaning.",
		}),
		RowsDroppedClean: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hospital_forecast",
			Name:      "rows_dropped_clean_total",
			Help:      "Aggregated rows removed by the missing-value strategy.",
		}),
		ForecastRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hospital_forecast",
			Name:      "forecast_rows",
			Help:      "States covered by the most recent forecast run.",
		}),
		CriticalStates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hospital_forecast",
			Name:      "critical_states",
			Help:      "States flagged critical in the most recent forecast run.",
		}),
		TrainingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hospital_forecast",
			Name:      "training_duration_seconds",
			Help:      "Duration of a complete model training run.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		ForecastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hospital_forecast",
			Name:      "forecast_duration_seconds",
			Help:      "Duration of a complete inference run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ForecastsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hospital_forecast",
			Name:      "forecasts_published_total",
			Help:      "Forecast records published to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hospital_forecast",
			Name:      "publish_errors_total",
			Help:      "Failed forecast publish attempts.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital_forecast",
			Name:      "http_requests_total",
			Help:      "Web app requests by route and status.",
		}, []string{"route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hospital_forecast",
			Name:      "http_request_duration_seconds",
			Help:      "Web app request duration by route.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
		ForecastReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hospital_forecast",
			Name:      "forecast_reloads_total",
			Help:      "Times the web app reloaded the forecast file from disk.",
		}),
	}
}
