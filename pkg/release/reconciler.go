package release

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"
)

const (
	opValidate = "validate"
	opInstall  = "install"
	opUpgrade  = "upgrade"
	opUpdate   = "update"
	opGet      = "get"
)

//Reconciler decides whether a release has to be installed, updated or upgraded
type Reconciler struct {
	client        Client
	logger        *zap.SugaredLogger
	actionOptions ActionOptions
	getAttempts   uint
	getDelay      time.Duration
}

func NewReconciler(client Client, logger *zap.SugaredLogger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Reconciler{
		client:        client,
		logger:        logger,
		actionOptions: DefaultActionOptions(),
		getAttempts:   1,
	}
}

func (r *Reconciler) WithActionOptions(opts ActionOptions) *Reconciler {
	r.actionOptions = opts
	return r
}

//WithExistenceCheckRetry repeats the read-only existence check on unclassified failures.
//Writes (install/upgrade action and update) are never repeated.
func (r *Reconciler) WithExistenceCheckRetry(attempts int, delay time.Duration) *Reconciler {
	if attempts < 1 {
		attempts = 1
	}
	r.getAttempts = uint(attempts)
	r.getDelay = delay
	return r
}

//Apply drives the remote release towards the requested state.
//An upgrade request goes straight to the repository-level upgrade action.
//An install request updates an existing release through PUT (guarded by its resource version)
//or runs the repository-level install action if the release does not exist.
func (r *Reconciler) Apply(ctx context.Context, req *Request) error {
	if err := req.Validate(); err != nil {
		return newReconcileError(Unknown, opValidate, req, err)
	}

	r.logger.Infof("Starting reconciliation of %s", req)

	if req.action() == ActionUpgrade {
		return r.invokeAction(ctx, ActionUpgrade, req)
	}

	r.logger.Debugf("Checking whether release '%s/%s' exists", req.Namespace, req.Name)
	existing, err := r.getExisting(ctx, req)
	if err != nil {
		if IsNotFound(err) {
			r.logger.Infof("Release '%s/%s' does not exist: installing it", req.Namespace, req.Name)
			return r.invokeAction(ctx, ActionInstall, req)
		}
		r.logger.Warnf("Failed to check existence of release '%s/%s': %s", req.Namespace, req.Name, err)
		return newReconcileError(Unknown, opGet, req, err)
	}

	if existing.ResourceVersion == "" {
		return newReconcileError(InvalidState, opUpdate, req,
			fmt.Errorf("release exists but its resource version could not be retrieved"))
	}

	r.logger.Infof("Release '%s/%s' exists (resource version '%s'): updating it",
		req.Namespace, req.Name, existing.ResourceVersion)
	if _, err := r.client.Update(ctx, req, existing.ResourceVersion); err != nil {
		kind := KindOf(err)
		if kind == Conflict {
			r.logger.Warnf("Release '%s/%s' was modified concurrently (resource version '%s' is stale)",
				req.Namespace, req.Name, existing.ResourceVersion)
		}
		return newReconcileError(kind, opUpdate, req, err)
	}

	r.logger.Infof("Update of release '%s/%s' finished successfully", req.Namespace, req.Name)
	return nil
}

func (r *Reconciler) getExisting(ctx context.Context, req *Request) (*Resource, error) {
	var existing *Resource
	err := retry.Do(func() error {
		var err error
		existing, err = r.client.Get(ctx, req.Namespace, req.Name)
		return err
	},
		retry.Attempts(r.getAttempts),
		retry.Delay(r.getDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return KindOf(err) == Unknown
		}),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warnf("Existence check of release '%s/%s' failed (attempt %d of %d): %s",
				req.Namespace, req.Name, n+1, r.getAttempts, err)
		}))
	return existing, err
}

func (r *Reconciler) invokeAction(ctx context.Context, action Action, req *Request) error {
	op := opInstall
	if action == ActionUpgrade {
		op = opUpgrade
	}

	r.logger.Infof("Running '%s' action of chart repository '%s' for release '%s/%s'",
		action, req.ChartRepo, req.Namespace, req.Name)
	if err := r.client.InvokeAction(ctx, req.ChartRepo, action, NewActionPayload(req, r.actionOptions)); err != nil {
		r.logger.Warnf("Action '%s' for release '%s/%s' failed: %s", action, req.Namespace, req.Name, err)
		return newReconcileError(KindOf(err), op, req, err)
	}

	r.logger.Infof("Action '%s' for release '%s/%s' finished successfully", action, req.Namespace, req.Name)
	return nil
}
