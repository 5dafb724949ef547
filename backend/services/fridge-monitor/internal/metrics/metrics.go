package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgewatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fridgewatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	// Ingest metrics
	ReadingsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgewatch_readings_ingested_total",
			Help: "Readings received by the ingestion endpoint",
		},
		[]string{"result"}, // result: recorded, invalid, storage_error
	)

	// Evaluator metrics
	EvaluationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgewatch_evaluation_runs_total",
			Help: "Threshold evaluation runs by outcome",
		},
		[]string{"outcome"}, // outcome: clear, alerted, storage_error, delivery_error
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fridgewatch_evaluation_duration_seconds",
			Help:    "Time taken by one evaluation run",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	BreachesDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fridgewatch_breaches_detected_total",
			Help: "Readings found above a threshold",
		},
	)

	// Notifier metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgewatch_notifications_total",
			Help: "Alert delivery attempts by channel and status",
		},
		[]string{"channel", "status"}, // status: delivered, failed
	)

	AlertSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fridgewatch_alert_subscribers",
			Help: "Connected alert feed websocket clients",
		},
	)
)
