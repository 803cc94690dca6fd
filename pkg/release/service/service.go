package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kyma-incubator/app-reconciler/pkg/features"
	"github.com/kyma-incubator/app-reconciler/pkg/metrics"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = 5 * time.Second
	defaultRetention     = time.Hour
)

type Config struct {
	Workers       int
	//RetryAttempts and RetryDelay apply to the read-only existence check of a release
	RetryAttempts int
	RetryDelay    time.Duration
	//JobTimeout bounds a single operation, 0 means unbounded
	JobTimeout    time.Duration
	//Retention defines how long finished operations remain queryable
	Retention     time.Duration
	Waiter        release.WaiterConfig
	Deleter       release.DeleterConfig
	//ActionOptions defaults to release.DefaultActionOptions if nil
	ActionOptions *release.ActionOptions
}

func (c *Config) validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("amount of workers cannot be < 0")
	}
	if c.Workers == 0 {
		c.Workers = defaultWorkers
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be < 0")
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = defaultRetryAttempts
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be < 0")
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.JobTimeout < 0 {
		return fmt.Errorf("job timeout cannot be < 0")
	}
	if c.Retention == 0 {
		c.Retention = defaultRetention
	}
	if c.ActionOptions == nil {
		opts := release.DefaultActionOptions()
		c.ActionOptions = &opts
	}
	return nil
}

//Service executes release operations asynchronously and exposes them through a REST API.
//Operations run in the context the service was created with.
type Service struct {
	ctx        context.Context
	client     release.Client
	workerPool *WorkerPool
	registry   *Registry
	runner     *runner
	metrics    *prometheus.Registry
	logger     *zap.SugaredLogger
}

func NewService(ctx context.Context, client release.Client, logger *zap.SugaredLogger, config Config) (*Service, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	waiter, err := release.NewWaiter(client, logger, config.Waiter)
	if err != nil {
		return nil, err
	}
	deleter, err := release.NewDeleter(client, waiter, logger, config.Deleter)
	if err != nil {
		return nil, err
	}
	workerPool, err := NewWorkerPool(ctx, config.Workers, logger)
	if err != nil {
		return nil, err
	}

	operationCollector := metrics.NewOperationCollector()
	metricsRegistry := prometheus.NewRegistry()
	serviceCollectors := []prometheus.Collector{
		operationCollector,
		metrics.NewWorkerPoolOccupancyCollector(workerPool, logger),
	}
	if features.Enabled(features.GoRuntimeMetrics) {
		serviceCollectors = append(serviceCollectors, collectors.NewGoCollector())
	}
	if err := metrics.RegisterAll(metricsRegistry, serviceCollectors...); err != nil {
		return nil, err
	}

	registry := NewRegistry(config.Retention)
	return &Service{
		ctx:        ctx,
		client:     client,
		workerPool: workerPool,
		registry:   registry,
		runner: &runner{
			reconciler: release.NewReconciler(client, logger).
				WithActionOptions(*config.ActionOptions).
				WithExistenceCheckRetry(config.RetryAttempts, config.RetryDelay),
			waiter:     waiter,
			deleter:    deleter,
			registry:   registry,
			metrics:    operationCollector,
			logger:     logger,
			jobTimeout: config.JobTimeout,
		},
		metrics: metricsRegistry,
		logger:  logger,
	}, nil
}

//SubmitApply validates the request and schedules its reconciliation
func (s *Service) SubmitApply(req *release.Request, wait bool, waitTimeout time.Duration) (*Operation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.submit(OperationApply, req.Namespace, req.Name, func(op *Operation) func() {
		return s.runner.applyFct(s.ctx, op, req, wait, waitTimeout)
	})
}

func (s *Service) SubmitDelete(namespace, name string) (*Operation, error) {
	return s.submit(OperationDelete, namespace, name, func(op *Operation) func() {
		return s.runner.deleteFct(s.ctx, op)
	})
}

func (s *Service) submit(opType OperationType, namespace, name string, newTask func(op *Operation) func()) (*Operation, error) {
	op := s.registry.Add(opType, namespace, name)
	if err := s.workerPool.Submit(newTask(op)); err != nil {
		s.registry.Remove(op.ID)
		return nil, err
	}
	s.logger.Debugf("%s submitted", op)
	return op, nil
}

//WorkerPool exposes the pool executing the operations
func (s *Service) WorkerPool() *WorkerPool {
	return s.workerPool
}

func (s *Service) Operation(id string) (*Operation, bool) {
	return s.registry.Get(id)
}
