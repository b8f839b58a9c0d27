package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "systemuser"

var (
	requestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "request",
		Name:      "created_total",
		Help:      "Total number of system user requests stored.",
	})

	problems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "request",
		Name:      "problems_total",
		Help:      "Business problems returned, broken down by operation and problem code.",
	}, []string{"operation", "code"})

	approvals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "approval",
		Name:      "total",
		Help:      "Approval attempts broken down by result.",
	}, []string{"result"})

	delegationChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "delegation",
		Name:      "checks_total",
		Help:      "Per-right delegation checks broken down by result.",
	}, []string{"result"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "latency_seconds",
		Help:      "Latency distribution of API calls.",
		Buckets: []float64{
			0.001, 0.005, 0.01, 0.025,
			0.05, 0.1, 0.25, 0.5,
			1, 2.5, 5,
		},
	}, []string{"route", "method", "status"})
)

func RecordRequestCreated() {
	requestsCreated.Inc()
}

func RecordProblem(operation, code string) {
	problems.WithLabelValues(operation, code).Inc()
}

// RecordApproval result is one of "approved", "rejected", "failed", "compensated".
func RecordApproval(result string) {
	approvals.WithLabelValues(result).Inc()
}

func RecordDelegationCheck(delegable bool) {
	result := "not_delegable"
	if delegable {
		result = "delegable"
	}
	delegationChecks.WithLabelValues(result).Inc()
}

func RecordAPILatency(route, method, status string, latency time.Duration) {
	apiLatency.With(prometheus.Labels{
		"route":  route,
		"method": method,
		"status": status,
	}).Observe(latency.Seconds())
}
