package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PgErrCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrdesk",
		Subsystem: "pg",
		Name:      "pg_err_count",
	}, []string{"method"})
	PgDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hrdesk",
		Subsystem: "pg",
		Name:      "pg_duration",
	}, []string{"method"})
	UpstreamErrCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrdesk",
		Subsystem: "upstream",
		Name:      "err_count",
	}, []string{"method"})
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hrdesk",
		Subsystem: "upstream",
		Name:      "duration",
	}, []string{"method"})
	Interactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrdesk",
		Subsystem: "calendar",
		Name:      "interactions",
	}, []string{"action", "result"})
	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hrdesk",
		Subsystem: "worker",
		Name:      "reminders_sent",
	})
)
