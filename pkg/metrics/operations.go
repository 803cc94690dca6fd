package metrics

import (
	"time"

	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/prometheus/client_golang/prometheus"
)

const resultSuccess = "success"

// OperationCollector provides statistics about executed release operations:
// - app_reconciler_operations_total - number of operations per operation type and result (success or error kind)
// - app_reconciler_operation_duration_seconds - processing time of operations
type OperationCollector struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewOperationCollector() *OperationCollector {
	return &OperationCollector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: prometheusSubsystem,
			Name:      "operations_total",
			Help:      "Number of executed release operations",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Subsystem: prometheusSubsystem,
			Name:      "operation_duration_seconds",
			Help:      "Processing time of release operations",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
		}, []string{"operation"}),
	}
}

//ObserveOperation records the result of an operation, errors are labelled with their kind
func (c *OperationCollector) ObserveOperation(operation string, err error, duration time.Duration) {
	result := resultSuccess
	if err != nil {
		result = string(release.KindOf(err))
	}
	c.operations.WithLabelValues(operation, result).Inc()
	c.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *OperationCollector) Describe(ch chan<- *prometheus.Desc) {
	c.operations.Describe(ch)
	c.duration.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (c *OperationCollector) Collect(ch chan<- prometheus.Metric) {
	c.operations.Collect(ch)
	c.duration.Collect(ch)
}
