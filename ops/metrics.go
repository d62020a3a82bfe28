package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded by ProviderCallsTotal.
const (
	CallAccepted       = "accepted"
	CallRejected       = "rejected"
	CallTransportError = "transport_error"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "Total number of outbound email provider API calls",
		},
		[]string{"endpoint", "outcome"},
	)

	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operations_total",
			Help: "Total number of subscribe and demo submission operations",
		},
		[]string{"operation", "result"},
	)

	ApiResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_responses_total",
			Help: "Total number of API responses",
		},
		[]string{"method", "route", "status"},
	)
)
