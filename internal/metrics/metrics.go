// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cuentas_http_requests_total",
		Help: "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cuentas_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cuentas_expenses_created_total",
		Help: "Expenses recorded.",
	})

	DebtsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cuentas_debts_generated_total",
		Help: "Debts derived from new expenses.",
	})

	DebtsPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cuentas_debts_paid_total",
		Help: "Debts marked as paid.",
	})

	ComputationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cuentas_computation_errors_total",
		Help: "Internal invariant violations by operation.",
	}, []string{"operation"})

	ReportCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cuentas_report_cache_total",
		Help: "Report cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cuentas_reminder_emails_total",
		Help: "Debtor reminder e-mails by result.",
	}, []string{"result"})
)
