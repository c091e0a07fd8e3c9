// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	UsersRegisteredTotal    prometheus.Counter
	PurchasesCreatedTotal   prometheus.Counter
	PurchaseAmountTotal     prometheus.Counter
	PurchasesCompletedTotal prometheus.Counter
	PurchasesFailedTotal    prometheus.Counter
}

// New registers all collectors on the given registerer. Tests pass a
// fresh registry so instances never collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests served",
			},
			[]string{"method", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		UsersRegisteredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total registered users",
		}),
		PurchasesCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "purchases_created_total",
			Help: "Total purchases created",
		}),
		PurchaseAmountTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "purchases_created_amount_total",
			Help: "Total amount of created purchases, minor currency units",
		}),
		PurchasesCompletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "purchases_completed_total",
			Help: "Total purchases confirmed by the payment provider",
		}),
		PurchasesFailedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "purchases_failed_total",
			Help: "Total purchases rejected by the payment provider",
		}),
	}
}
