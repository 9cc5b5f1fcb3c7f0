// Package worker runs the daily billing jobs: the overdue sweep and the
// reminder dispatch. Both are safe to run repeatedly on the same day.
package worker

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Job names used for locks, metrics and logs.
const (
	JobRecomputeOverdue = "recompute-overdue"
	JobSendReminders    = "send-reminders"
)

var (
	// overdueUpdated counts invoices promoted PENDING -> OVERDUE.
	overdueUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rent_overdue_updated_total",
			Help: "Invoices moved from PENDING to OVERDUE by the daily sweep.",
		},
	)

	// remindersTotal counts reminder outcomes by rule and status
	// (sent, failed, skipped).
	remindersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rent_reminders_total",
			Help: "Reminder candidates processed, by rule and outcome.",
		},
		[]string{"rule", "status"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rent_job_duration_seconds",
			Help:    "Duration of daily job runs in seconds.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"job"},
	)
)

func init() {
	prometheus.MustRegister(overdueUpdated, remindersTotal, jobDuration)
}
