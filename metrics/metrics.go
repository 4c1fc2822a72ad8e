// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnswersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailyq_answers_submitted_total",
		Help: "Answers accepted by the submission pipeline.",
	}, []string{"timeliness", "flagged"})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailyq_job_runs_total",
		Help: "Scheduled job runs by job and outcome.",
	}, []string{"job", "outcome"})

	PushBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailyq_push_batches_total",
		Help: "Push gateway batches by result.",
	}, []string{"result"})

	StoreRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailyq_store_retries_total",
		Help: "Store calls retried after a failed attempt.",
	}, []string{"op"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dailyq_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
