package release

import "context"

//Client is the uniform access layer to the remote release API.
//Implementations map every failure to *Error and never retry.
//go:generate mockery --name=Client --output=mocks --case=underscore
type Client interface {
	Get(ctx context.Context, namespace, name string) (*Resource, error)
	Create(ctx context.Context, req *Request) (*Resource, error)
	Update(ctx context.Context, req *Request, resourceVersion string) (*Resource, error)
	InvokeAction(ctx context.Context, repo string, action Action, payload *ActionPayload) error
	Delete(ctx context.Context, namespace, name string) error
}
