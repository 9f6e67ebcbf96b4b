package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// pipeline scheduler and its stages.
type Metrics struct {
	RunsTotal            prometheus.Counter
	RunsFailed           prometheus.Counter
	ConsecutiveFailures  prometheus.Gauge
	LastSuccessTimestamp prometheus.Gauge
	SchedulerRunning     prometheus.Gauge
	BackoffsApplied      prometheus.Counter

	RunDuration   prometheus.Histogram
	StageDuration *prometheus.HistogramVec // label: stage={extract,transform,load}
	StageFailures *prometheus.CounterVec   // label: stage

	LocationsResolved prometheus.Counter
	LocationsSkipped  prometheus.Counter
	RegionsMerged     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunsFailed,
		m.ConsecutiveFailures,
		m.LastSuccessTimestamp,
		m.SchedulerRunning,
		m.BackoffsApplied,
		m.RunDuration,
		m.StageDuration,
		m.StageFailures,
		m.LocationsResolved,
		m.LocationsSkipped,
		m.RegionsMerged,
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
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "runs_total",
			Help:      "Total pipeline runs attempted.",
		}),
		RunsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "runs_failed_total",
			Help:      "Total pipeline runs that failed at any stage.",
		}),
		ConsecutiveFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "consecutive_failures",
			Help:      "Current back-to-back failed run count.",
		}),
		LastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "scheduler_running",
			Help:      "1 while the scheduler loop is active.",
		}),
		BackoffsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "backoffs_applied_total",
			Help:      "Times the consecutive-failure cooldown delayed a run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-transform-load run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "climate_etl",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"stage"}),
		StageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "stage_failures_total",
			Help:      "Stage failures by stage name.",
		}, []string{"stage"}),
		LocationsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "locations_resolved_total",
			Help:      "Locations successfully assigned to a region.",
		}),
		LocationsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "locations_skipped_total",
			Help:      "Locations dropped because no region could be assigned.",
		}),
		RegionsMerged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "regions_merged",
			Help:      "Regions present in the last merged artifact.",
		}),
	}
}
