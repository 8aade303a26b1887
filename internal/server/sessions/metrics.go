package sessions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cleanupRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authcore_session_cleanup_runs_total",
		Help: "Number of expired-session sweeps executed.",
	})

	cleanupDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authcore_session_cleanup_deleted_total",
		Help: "Number of expired session rows deleted by sweeps.",
	})

	schedulerRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "authcore_session_cleanup_scheduler_running",
		Help: "Whether the background cleanup scheduler is running (0 or 1).",
	})
)
