package service

import (
	"context"
	"time"

	"github.com/kyma-incubator/app-reconciler/pkg/logger"
	"github.com/kyma-incubator/app-reconciler/pkg/metrics"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"go.uber.org/zap"
)

type runner struct {
	reconciler *release.Reconciler
	waiter     *release.Waiter
	deleter    *release.Deleter
	registry   *Registry
	metrics    *metrics.OperationCollector
	logger     *zap.SugaredLogger
	jobTimeout time.Duration
}

//applyFct reconciles the release and optionally waits until it converged.
//A failed write is reported in the operation status and never sent again.
func (r *runner) applyFct(ctx context.Context, op *Operation, req *release.Request, wait bool, waitTimeout time.Duration) func() {
	return r.runFct(ctx, op, func(ctx context.Context, log *zap.SugaredLogger) error {
		err := r.reconciler.Apply(ctx, req)
		if err != nil || !wait {
			return err
		}
		_, err = r.waiter.WaitUntilReady(ctx, req.Namespace, req.Name, waitTimeout)
		return err
	})
}

func (r *runner) deleteFct(ctx context.Context, op *Operation) func() {
	return r.runFct(ctx, op, func(ctx context.Context, log *zap.SugaredLogger) error {
		return r.deleter.Delete(ctx, op.Namespace, op.Name)
	})
}

func (r *runner) runFct(ctx context.Context, op *Operation, fct func(ctx context.Context, log *zap.SugaredLogger) error) func() {
	return func() {
		if r.jobTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.jobTimeout)
			defer cancel()
		}

		log := logger.WithCorrelationID(r.logger, op.ID)
		log.Debugf("%s is assigned to worker", op)
		r.registry.Update(op.ID, StatusRunning, nil)

		start := time.Now()
		err := fct(ctx, log)
		r.metrics.ObserveOperation(string(op.Type), err, time.Since(start))

		if err != nil {
			log.Errorf("%s failed: %s", op, err)
			r.registry.Update(op.ID, StatusFailed, err)
			return
		}
		log.Infof("%s finished successfully", op)
		r.registry.Update(op.ID, StatusSuccess, nil)
	}
}
