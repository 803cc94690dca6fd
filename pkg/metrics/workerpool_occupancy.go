package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

//Occupancy is implemented by worker pools which expose their running and total number of workers
type Occupancy interface {
	Running() int
	Cap() int
}

// WorkerPoolOccupancyCollector provides the ratio of running workers in the worker-pool:
// - app_reconciler_worker_pool_occupancy - ratio of running workers in the worker-pool
type WorkerPoolOccupancyCollector struct {
	pool          Occupancy
	logger        *zap.SugaredLogger
	occupancyDesc *prometheus.Desc
}

func NewWorkerPoolOccupancyCollector(pool Occupancy, logger *zap.SugaredLogger) *WorkerPoolOccupancyCollector {
	if pool == nil {
		logger.Error("unable to register metric: worker pool is nil")
		return nil
	}
	return &WorkerPoolOccupancyCollector{
		pool:   pool,
		logger: logger,
		occupancyDesc: prometheus.NewDesc(prometheus.BuildFQName("", prometheusSubsystem, "worker_pool_occupancy"),
			"Ratio of running workers in the worker-pool",
			[]string{},
			nil),
	}
}

func (c *WorkerPoolOccupancyCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.occupancyDesc
}

// Collect implements the prometheus.Collector interface.
func (c *WorkerPoolOccupancyCollector) Collect(ch chan<- prometheus.Metric) {
	capacity := c.pool.Cap()
	if capacity <= 0 {
		c.logger.Debugf("worker pool has no capacity (%d): skipping occupancy metric", capacity)
		return
	}
	m, err := prometheus.NewConstMetric(c.occupancyDesc, prometheus.GaugeValue, float64(c.pool.Running())/float64(capacity))
	if err != nil {
		c.logger.Errorf("unable to build occupancy metric: %s", err)
		return
	}
	ch <- m
}
