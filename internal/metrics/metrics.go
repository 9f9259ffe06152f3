package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route, method and status.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// RegistrationsTotal counts registration attempts by outcome:
	// success, validation_error, duplicate or error.
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_registrations_total",
			Help: "Total user registration attempts",
		},
		[]string{"outcome"},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

// Init registers the collectors. Must be called once at startup.
func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RegistrationsTotal)
}
