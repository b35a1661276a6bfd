// Package metrics exposes the Prometheus collectors of the Copter server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPC counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "copter",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total number of RPC calls",
		},
		[]string{"procedure", "code"},
	)

	// RPC duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "copter",
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "RPC duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"procedure"},
	)

	BillsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "copter",
			Subsystem: "settlement",
			Name:      "bills_created_total",
			Help:      "Bills created, by split mode",
		},
		[]string{"split_mode"},
	)

	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "copter",
			Subsystem: "settlement",
			Name:      "transitions_total",
			Help:      "Successful settlement commands, by operation",
		},
		[]string{"operation"},
	)

	BillsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "copter",
			Subsystem: "settlement",
			Name:      "bills_completed_total",
			Help:      "Bills that reached completed",
		},
	)

	DenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "copter",
			Subsystem: "settlement",
			Name:      "denials_total",
			Help:      "Refused settlement commands, by reason",
		},
		[]string{"reason"},
	)

	// Sweep outcomes
	RemindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "copter",
			Subsystem: "scheduler",
			Name:      "reminders_total",
			Help:      "Reminder deliveries, by status",
		},
		[]string{"status"},
	)

	FilesCleanedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "copter",
			Subsystem: "scheduler",
			Name:      "files_cleaned_total",
			Help:      "Attachment cleanups, by status",
		},
		[]string{"status"},
	)

	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "copter",
			Subsystem: "scheduler",
			Name:      "sweep_duration_seconds",
			Help:      "Scheduled sweep duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"job"},
	)
)

// RecordRequest records one RPC call.
func RecordRequest(procedure, code string, durationSec float64) {
	RequestsTotal.WithLabelValues(procedure, code).Inc()
	RequestDuration.WithLabelValues(procedure).Observe(durationSec)
}

// RecordTransition records a successful command and, when it closed the bill, the completion.
func RecordTransition(operation string, completed bool) {
	TransitionsTotal.WithLabelValues(operation).Inc()
	if completed {
		BillsCompletedTotal.Inc()
	}
}

// RecordBillCreated records a new bill.
func RecordBillCreated(splitMode string, completed bool) {
	BillsCreatedTotal.WithLabelValues(splitMode).Inc()
	RecordTransition("create", completed)
}

// RecordDenial records a refused command.
func RecordDenial(reason string) {
	DenialsTotal.WithLabelValues(reason).Inc()
}

// RecordReminder records one reminder delivery attempt.
func RecordReminder(status string) {
	RemindersTotal.WithLabelValues(status).Inc()
}

// RecordFileCleanup records one attachment cleanup attempt.
func RecordFileCleanup(status string) {
	FilesCleanedTotal.WithLabelValues(status).Inc()
}

// RecordSweep records how long a scheduled sweep took.
func RecordSweep(job string, durationSec float64) {
	SweepDuration.WithLabelValues(job).Observe(durationSec)
}
