package release

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	defaultWaitInterval = 1500 * time.Millisecond
	defaultWaitTimeout  = 90 * time.Second

	opWait       = "wait"
	opWaitAbsent = "wait-absent"
)

type WaiterConfig struct {
	Interval time.Duration
	Timeout  time.Duration //used when a caller passes a timeout <= 0
}

func (c *WaiterConfig) validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("wait interval cannot be < 0")
	}
	if c.Interval == 0 {
		c.Interval = defaultWaitInterval
	}
	if c.Timeout < 0 {
		return fmt.Errorf("wait timeout cannot be < 0")
	}
	if c.Timeout == 0 {
		c.Timeout = defaultWaitTimeout
	}
	return nil
}

//Waiter polls a release in a fixed interval until it converged (or disappeared)
type Waiter struct {
	client   Client
	logger   *zap.SugaredLogger
	interval time.Duration
	timeout  time.Duration
}

func NewWaiter(client Client, logger *zap.SugaredLogger, config WaiterConfig) (*Waiter, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Waiter{
		client:   client,
		logger:   logger,
		interval: config.Interval,
		timeout:  config.Timeout,
	}, nil
}

//observation is evaluated after each poll: done stops the loop successfully
type observation func(res *Resource, err error) (done bool, lastErr error)

//WaitUntilReady returns the first observation where observedGeneration >= generation.
//NotFound and other failures are tolerated until the timeout is reached.
func (w *Waiter) WaitUntilReady(ctx context.Context, namespace, name string, timeout time.Duration) (*Resource, error) {
	var converged *Resource
	err := w.poll(ctx, opWait, namespace, name, timeout, func(res *Resource, err error) (bool, error) {
		if err != nil {
			if IsNotFound(err) {
				w.logger.Debugf("Release '%s/%s' is not visible yet", namespace, name)
				return false, nil
			}
			w.logger.Warnf("Failed to retrieve release '%s/%s' (status code %d) but will retry until timeout is reached: %s",
				namespace, name, StatusCode(err), err)
			return false, err
		}
		w.logger.Debugf("Status of release %s", res)
		if res.Converged() {
			converged = res
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	w.logger.Infof("Release '%s/%s' converged (generation %d)", namespace, name, converged.Generation)
	return converged, nil
}

//Wait is WaitUntilReady returning a WaitResult
func (w *Waiter) Wait(ctx context.Context, namespace, name string, timeout time.Duration) (*WaitResult, error) {
	res, err := w.WaitUntilReady(ctx, namespace, name, timeout)
	if err != nil {
		return &WaitResult{Converged: false}, err
	}
	return &WaitResult{Resource: res, Converged: true}, nil
}

//WaitUntilAbsent polls until the release is no longer found
func (w *Waiter) WaitUntilAbsent(ctx context.Context, namespace, name string, timeout time.Duration) error {
	return w.poll(ctx, opWaitAbsent, namespace, name, timeout, func(res *Resource, err error) (bool, error) {
		if err == nil {
			w.logger.Debugf("Removal of release %s is still ongoing", res)
			return false, nil
		}
		if IsNotFound(err) {
			return true, nil
		}
		w.logger.Warnf("Failed to retrieve release '%s/%s' but will retry until timeout is reached: %s",
			namespace, name, err)
		return false, err
	})
}

func (w *Waiter) poll(ctx context.Context, op, namespace, name string, timeout time.Duration, observe observation) error {
	if timeout <= 0 {
		timeout = w.timeout
	}
	start := time.Now()
	//every request is bound to the wait deadline
	pollCtx, cancel := context.WithDeadline(ctx, start.Add(timeout))
	defer cancel()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastErr error
	for {
		res, err := w.client.Get(pollCtx, namespace, name)
		if ctx.Err() != nil {
			return w.contextError(ctx, op, namespace, name, time.Since(start), lastErr)
		}
		//a late response is ignored, even if it reports convergence
		if time.Since(start) >= timeout {
			return w.timeoutError(op, namespace, name, timeout, lastErr)
		}

		done, errObserved := observe(res, err)
		if done {
			return nil
		}
		if errObserved != nil {
			lastErr = errObserved
		}

		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				return w.contextError(ctx, op, namespace, name, time.Since(start), lastErr)
			}
			return w.timeoutError(op, namespace, name, timeout, lastErr)
		case <-ticker.C:
		}
	}
}

func (w *Waiter) timeoutError(op, namespace, name string, timeout time.Duration, lastErr error) error {
	msg := fmt.Sprintf("release '%s/%s' did not appear in time", namespace, name)
	if op == opWaitAbsent {
		msg = fmt.Sprintf("release '%s/%s' was not removed in time", namespace, name)
	}
	if errMsg := messageOf(lastErr); errMsg != "" {
		msg = errMsg
	}
	w.logger.Warnf("Stop polling release '%s/%s' because timeout of %.1f secs was reached: %s",
		namespace, name, timeout.Seconds(), msg)
	return &WaitError{OperationError{
		Kind:      Timeout,
		Op:        op,
		Namespace: namespace,
		Name:      name,
		Message:   msg,
		Err:       lastErr,
	}}
}

//contextError maps a closed parent context: an expired deadline counts as timeout after the elapsed time
func (w *Waiter) contextError(ctx context.Context, op, namespace, name string, elapsed time.Duration, lastErr error) error {
	w.logger.Debugf("Stop polling release '%s/%s' because parent context got closed", namespace, name)
	if ctx.Err() == context.DeadlineExceeded {
		return w.timeoutError(op, namespace, name, elapsed, lastErr)
	}
	return &WaitError{OperationError{
		Kind:      Unknown,
		Op:        op,
		Namespace: namespace,
		Name:      name,
		Err:       ctx.Err(),
	}}
}

//messageOf returns the remote message of a client error or the plain error text
func messageOf(err error) string {
	if err == nil {
		return ""
	}
	var clientErr *Error
	if errors.As(err, &clientErr) && clientErr.Message != "" {
		return clientErr.Message
	}
	return err.Error()
}
