package rancher

import (
	"errors"

	"github.com/kyma-incubator/app-reconciler/pkg/release"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

//toReleaseError is the only place where transport errors are translated into the release error taxonomy
func toReleaseError(err error) error {
	if err == nil {
		return nil
	}

	var status apierrors.APIStatus
	if !errors.As(err, &status) {
		return &release.Error{Kind: release.Unknown, Message: err.Error(), Err: err}
	}

	kind := release.Unknown
	switch {
	case apierrors.IsNotFound(err):
		kind = release.NotFound
	case apierrors.IsConflict(err):
		kind = release.Conflict
	}

	message := status.Status().Message
	if message == "" {
		message = err.Error()
	}
	return &release.Error{
		Kind:    kind,
		Code:    int(status.Status().Code),
		Message: message,
		Err:     err,
	}
}
