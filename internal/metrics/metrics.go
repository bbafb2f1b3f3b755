package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flatpay_http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flatpay_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	InvoicesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flatpay_invoices_generated_total",
		Help: "Invoices created by batch generation",
	})

	BatchTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flatpay_batch_transitions_total",
		Help: "Invoice batch state transitions",
	}, []string{"transition"})

	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flatpay_messages_sent_total",
		Help: "Webhook delivery attempts by outcome",
	}, []string{"outcome"})

	PDFsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flatpay_pdfs_rendered_total",
		Help: "Invoice PDF renders by outcome",
	}, []string{"outcome"})
)
