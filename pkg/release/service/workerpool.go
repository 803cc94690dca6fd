package service

import (
	"context"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultWorkers = 25

var ErrPoolFull = errors.New("worker pool has reached its capacity")

type WorkerPool struct {
	logger   *zap.SugaredLogger
	antsPool *ants.Pool
}

//NewWorkerPool starts a non-blocking pool which gets released when the context is closed
func NewWorkerPool(ctx context.Context, size int, logger *zap.SugaredLogger) (*WorkerPool, error) {
	if size <= 0 {
		size = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	logger.Infof("Starting worker pool with %d workers", size)
	antsPool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	go func(ctx context.Context, antsPool *ants.Pool) {
		<-ctx.Done()
		logger.Info("Shutting down worker pool")
		antsPool.Release()
	}(ctx, antsPool)

	return &WorkerPool{
		logger:   logger,
		antsPool: antsPool,
	}, nil
}

func (wp *WorkerPool) Submit(task func()) error {
	err := wp.antsPool.Submit(task)
	if errors.Is(err, ants.ErrPoolOverload) {
		return errors.Wrapf(ErrPoolFull, "all %d workers are busy", wp.Cap())
	}
	return err
}

func (wp *WorkerPool) IsClosed() bool {
	return wp.antsPool.IsClosed()
}

func (wp *WorkerPool) Running() int {
	return wp.antsPool.Running()
}

func (wp *WorkerPool) Cap() int {
	return wp.antsPool.Cap()
}
