package release

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	defaultDeletePause = 5 * time.Second

	opDelete = "delete"
)

type DeleterConfig struct {
	//Pause is the fixed hand-off delay after the uninstall action was accepted
	Pause time.Duration
	//AbsenceTimeout replaces the pause by polling until the release disappeared (requires a Waiter)
	AbsenceTimeout time.Duration
}

func (c *DeleterConfig) validate() error {
	if c.Pause < 0 {
		return fmt.Errorf("delete pause cannot be < 0")
	}
	if c.Pause == 0 {
		c.Pause = defaultDeletePause
	}
	if c.AbsenceTimeout < 0 {
		return fmt.Errorf("absence timeout cannot be < 0")
	}
	return nil
}

//Deleter uninstalls releases
type Deleter struct {
	client Client
	waiter *Waiter
	logger *zap.SugaredLogger
	config DeleterConfig
}

func NewDeleter(client Client, waiter *Waiter, logger *zap.SugaredLogger, config DeleterConfig) (*Deleter, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.AbsenceTimeout > 0 && waiter == nil {
		return nil, fmt.Errorf("a waiter is required when an absence timeout is configured")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Deleter{
		client: client,
		waiter: waiter,
		logger: logger,
		config: config,
	}, nil
}

//Delete invokes the uninstall action of the release. Afterwards it either pauses for a fixed delay
//(best-effort hand-off to the remote controller) or, if an absence timeout is configured,
//polls until the release is gone.
func (d *Deleter) Delete(ctx context.Context, namespace, name string) error {
	d.logger.Infof("Uninstalling release '%s/%s'", namespace, name)

	if err := d.client.Delete(ctx, namespace, name); err != nil {
		d.logger.Errorf("Failed to uninstall release '%s/%s': %s", namespace, name, err)
		return &DeleteError{OperationError{
			Kind:      KindOf(err),
			Op:        opDelete,
			Namespace: namespace,
			Name:      name,
			Err:       err,
		}}
	}

	if d.config.AbsenceTimeout > 0 {
		if err := d.waiter.WaitUntilAbsent(ctx, namespace, name, d.config.AbsenceTimeout); err != nil {
			return &DeleteError{OperationError{
				Kind:      KindOf(err),
				Op:        opDelete,
				Namespace: namespace,
				Name:      name,
				Err:       err,
			}}
		}
		d.logger.Infof("Release '%s/%s' removed", namespace, name)
		return nil
	}

	pause := time.NewTimer(d.config.Pause)
	defer pause.Stop()
	select {
	case <-pause.C:
	case <-ctx.Done():
		d.logger.Debugf("Pause after uninstalling release '%s/%s' interrupted: context got closed", namespace, name)
	}

	d.logger.Infof("Uninstall of release '%s/%s' accepted", namespace, name)
	return nil
}
