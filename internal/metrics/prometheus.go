package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the rating and simulation engine

var (
	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbsim_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mlbsim_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlbsim_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlbsim_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Base-state cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlbsim_cache_hits_total",
			Help: "Total number of base-state cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlbsim_cache_misses_total",
			Help: "Total number of base-state cache misses",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mlbsim_cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// Elo precompute metrics
	EloPrecomputeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbsim_elo_precompute_runs_total",
			Help: "Total number of Elo precompute runs",
		},
		[]string{"status"},
	)

	EloPrecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mlbsim_elo_precompute_duration_seconds",
			Help:    "Duration of Elo precompute runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	EloGamesFolded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlbsim_elo_games_folded_total",
			Help: "Total number of games folded into Elo history",
		},
	)

	EloRowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlbsim_elo_rows_skipped_total",
			Help: "Total number of malformed or out-of-order game rows skipped",
		},
	)

	EloRatingsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlbsim_elo_ratings_upserted_total",
			Help: "Total number of Elo history rows written",
		},
	)

	PlusStatsUpdated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbsim_plus_stats_updated_total",
			Help: "Total number of player rows given a league-adjusted stat",
		},
		[]string{"stat"},
	)

	// Simulation metrics
	MonteCarloRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbsim_monte_carlo_runs_total",
			Help: "Total number of Monte Carlo season simulations",
		},
		[]string{"mode"},
	)

	MonteCarloTrialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbsim_monte_carlo_trials_total",
			Help: "Total number of simulated seasons",
		},
		[]string{"mode"},
	)

	MonteCarloDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mlbsim_monte_carlo_duration_seconds",
			Help:    "Duration of Monte Carlo simulations in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode"},
	)

	WhatIfRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbsim_whatif_runs_total",
			Help: "Total number of trade simulation pipeline runs",
		},
		[]string{"status"},
	)

	WhatIfDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mlbsim_whatif_duration_seconds",
			Help:    "Duration of trade simulation pipeline runs in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbsim_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// Scheduler metrics
	SchedulerJobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbsim_scheduler_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "status"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlbsim_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulPrecompute = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlbsim_last_successful_precompute_timestamp",
			Help: "Timestamp of last successful Elo precompute",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordCacheOperation records a cache operation duration
func RecordCacheOperation(operation string, duration float64) {
	CacheOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordEloPrecompute records one precompute run
func RecordEloPrecompute(status string, duration float64, games, skipped, upserted int) {
	EloPrecomputeRunsTotal.WithLabelValues(status).Inc()
	EloPrecomputeDuration.Observe(duration)
	EloGamesFolded.Add(float64(games))
	EloRowsSkipped.Add(float64(skipped))
	EloRatingsUpserted.Add(float64(upserted))

	if status == "success" {
		LastSuccessfulPrecompute.SetToCurrentTime()
	}
}

// RecordPlusStats records the rows one season's ops_plus or era_plus update touched
func RecordPlusStats(stat string, rows int64) {
	PlusStatsUpdated.WithLabelValues(stat).Add(float64(rows))
}

// RecordMonteCarlo records a Monte Carlo simulation
func RecordMonteCarlo(mode string, trials int, duration float64) {
	MonteCarloRunsTotal.WithLabelValues(mode).Inc()
	MonteCarloTrialsTotal.WithLabelValues(mode).Add(float64(trials))
	MonteCarloDuration.WithLabelValues(mode).Observe(duration)
}

// RecordWhatIf records a trade simulation pipeline run
func RecordWhatIf(status string, duration float64) {
	WhatIfRunsTotal.WithLabelValues(status).Inc()
	WhatIfDuration.Observe(duration)
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// RecordSchedulerJob records a scheduled job run
func RecordSchedulerJob(job, status string) {
	SchedulerJobRunsTotal.WithLabelValues(job, status).Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(active, idle int32) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
