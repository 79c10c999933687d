// Package metrics holds the Prometheus collectors of the service: HTTP
// traffic observed by the middleware and the domain counters recording what
// the requests achieved.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UnmatchedRoute labels requests that matched no registered route, keeping
// label cardinality bounded under path scanning.
const UnmatchedRoute = "unmatched"

// Notification results.
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)

var (
	// HTTPRequests counts handled requests by method, route template and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration tracks request latency by method and route template.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
		[]string{"method", "route"},
	)

	// HTTPResponseSize tracks body sizes of written responses.
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response body size in bytes",
			Buckets: prometheus.ExponentialBuckets(128, 4, 7), // 128B .. 512KiB
		},
		[]string{"method", "route"},
	)

	// HTTPInFlight is the number of requests currently being served.
	HTTPInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "HTTP requests currently being served",
	})

	// RateLimited counts requests rejected with 429, by limiter and route.
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter", "route"},
	)

	// BookingsCreated counts inserted bookings by creation flow.
	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings inserted, by creation flow",
		},
		[]string{"source"}, // direct, booking, payment
	)

	// Notifications counts transactional email attempts.
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Transactional email attempts by kind and result",
		},
		[]string{"kind", "result"},
	)

	// PaymentConfirmations counts confirm-payment checks by provider status.
	PaymentConfirmations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_confirmations_total",
			Help: "Payment intent checks by reported status",
		},
		[]string{"status"},
	)

	// NewsletterSubscribers is the subscriber count after the last sign-up.
	NewsletterSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "newsletter_subscribers",
		Help: "Newsletter subscribers stored",
	})

	// CompletionDuration tracks the latency of language model completions.
	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chat_completion_duration_seconds",
			Help: "Duration of completion requests in seconds",
			Buckets: []float64{
				0.1,  // 100ms
				0.25, // 250ms
				0.5,  // 500ms
				1.0,  // 1s
				2.5,  // 2.5s
				5.0,  // 5s
				10.0, // 10s
				30.0, // 30s
			},
		},
		[]string{"status"}, // success or failure
	)
)

// ObserveHTTP records one finished request. size < 0 means no body was
// written and is left out of the size histogram.
func ObserveHTTP(method, route string, status int, elapsed time.Duration, size int) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	if size >= 0 {
		HTTPResponseSize.WithLabelValues(method, route).Observe(float64(size))
	}
}

// TrackInFlight increments the in-flight gauge and returns the func that
// decrements it.
func TrackInFlight() func() {
	HTTPInFlight.Inc()
	return HTTPInFlight.Dec
}

// RecordRateLimited counts one rejected request.
func RecordRateLimited(limiter, route string) {
	RateLimited.WithLabelValues(limiter, route).Inc()
}

// RecordBookingCreated increments the bookings counter for source.
func RecordBookingCreated(source string) {
	BookingsCreated.WithLabelValues(source).Inc()
}

// RecordNotification records one email attempt.
func RecordNotification(kind string, err error) {
	result := ResultSent
	if err != nil {
		result = ResultFailed
	}
	Notifications.WithLabelValues(kind, result).Inc()
}

// RecordPaymentConfirmation records the status the provider reported.
func RecordPaymentConfirmation(status string) {
	if status == "" {
		status = "unknown"
	}
	PaymentConfirmations.WithLabelValues(status).Inc()
}

// RecordCompletionDuration records the duration of a completion request.
func RecordCompletionDuration(status string, seconds float64) {
	CompletionDuration.WithLabelValues(status).Observe(seconds)
}
