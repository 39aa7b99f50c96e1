package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginsTotal counts login attempts by result (success, admin, failure).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	SignupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_signups_total",
			Help: "Accounts created through signup",
		},
	)

	ContactSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_messages_submitted_total",
			Help: "Contact messages accepted since process start",
		},
	)

	// UsersRegistered and ContactMessagesStored are refreshed from the database by the stats job.
	UsersRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_registered",
			Help: "Rows in the users table at last refresh",
		},
	)

	ContactMessagesStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "contact_messages_stored",
			Help: "Rows in the contact_messages table at last refresh",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LoginsTotal, SignupsTotal,
			ContactSubmittedTotal, UsersRegistered, ContactMessagesStored)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

func IncLogin(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

func IncSignup() {
	SignupsTotal.Inc()
}

func IncContactSubmitted() {
	ContactSubmittedTotal.Inc()
}

// SetStoredCounts updates both table gauges.
func SetStoredCounts(users, messages int) {
	UsersRegistered.Set(float64(users))
	ContactMessagesStored.Set(float64(messages))
}
