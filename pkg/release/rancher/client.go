package rancher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

const (
	defaultClusterID        = "local"
	defaultTimeout          = 30 * time.Second
	defaultUninstallTimeout = "600s"
	userAgent               = "app-reconciler"

	actionUninstall = "uninstall"
)

type Config struct {
	//Kubeconfig is a path to a kubeconfig file pointing to the cluster endpoint of Rancher (has precedence over URL)
	Kubeconfig string
	URL        string
	Token      string
	ClusterID  string
	Insecure   bool
	Timeout    time.Duration
	//QPS < 0 disables client side rate limiting
	QPS              float32
	Burst            int
	UninstallTimeout string
}

func (c *Config) validate() error {
	if c.Kubeconfig == "" && c.URL == "" {
		return fmt.Errorf("either a kubeconfig or the Rancher URL is required")
	}
	if c.URL != "" {
		if _, err := url.ParseRequestURI(c.URL); err != nil {
			return errors.Wrapf(err, "Rancher URL '%s' is invalid", c.URL)
		}
	}
	if c.ClusterID == "" {
		c.ClusterID = defaultClusterID
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be < 0")
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.UninstallTimeout == "" {
		c.UninstallTimeout = defaultUninstallTimeout
	}
	if _, err := time.ParseDuration(c.UninstallTimeout); err != nil {
		return errors.Wrapf(err, "uninstall timeout '%s' is not a duration", c.UninstallTimeout)
	}
	return nil
}

func (c *Config) restConfig() (*rest.Config, error) {
	var restCfg *rest.Config
	if c.Kubeconfig != "" {
		var err error
		restCfg, err = clientcmd.BuildConfigFromFlags("", c.Kubeconfig)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load kubeconfig '%s'", c.Kubeconfig)
		}
	} else {
		restCfg = &rest.Config{
			Host:        fmt.Sprintf("%s/k8s/clusters/%s", strings.TrimSuffix(c.URL, "/"), url.PathEscape(c.ClusterID)),
			BearerToken: c.Token,
			TLSClientConfig: rest.TLSClientConfig{
				Insecure: c.Insecure,
			},
		}
	}
	restCfg.Timeout = c.Timeout
	restCfg.UserAgent = userAgent
	if c.QPS != 0 {
		restCfg.QPS = c.QPS
	}
	if c.Burst > 0 {
		restCfg.Burst = c.Burst
	}
	restCfg.ContentConfig = rest.ContentConfig{
		NegotiatedSerializer: scheme.Codecs.WithoutConversion(),
		ContentType:          runtime.ContentTypeJSON,
		AcceptContentTypes:   runtime.ContentTypeJSON,
	}
	return restCfg, nil
}

//Client talks to the catalog API of a Rancher managed cluster
type Client struct {
	rest             rest.Interface
	logger           *zap.SugaredLogger
	uninstallTimeout string
}

func NewClient(config Config, logger *zap.SugaredLogger) (*Client, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	restCfg, err := config.restConfig()
	if err != nil {
		return nil, err
	}
	restClient, err := rest.UnversionedRESTClientFor(restCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create REST client")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		rest:             restClient,
		logger:           logger,
		uninstallTimeout: config.UninstallTimeout,
	}, nil
}

func appsPath(namespace string) []string {
	return []string{"apis", "catalog.cattle.io", "v1", "namespaces", namespace, "apps"}
}

func appPath(namespace, name string) []string {
	return append(appsPath(namespace), name)
}

func (c *Client) Get(ctx context.Context, namespace, name string) (*release.Resource, error) {
	result := c.rest.Get().
		AbsPath(appPath(namespace, name)...).
		MaxRetries(0).
		Do(ctx)
	return decodeApp(result)
}

func (c *Client) Create(ctx context.Context, req *release.Request) (*release.Resource, error) {
	return c.sendApp(ctx, c.rest.Post().AbsPath(appsPath(req.Namespace)...), newApp(req, ""))
}

func (c *Client) Update(ctx context.Context, req *release.Request, resourceVersion string) (*release.Resource, error) {
	return c.sendApp(ctx, c.rest.Put().AbsPath(appPath(req.Namespace, req.Name)...), newApp(req, resourceVersion))
}

func (c *Client) sendApp(ctx context.Context, request *rest.Request, app *App) (*release.Resource, error) {
	data, err := json.Marshal(app)
	if err != nil {
		return nil, &release.Error{Kind: release.Unknown, Message: "failed to marshal app", Err: err}
	}
	result := request.
		SetHeader("Content-Type", runtime.ContentTypeJSON).
		Body(data).
		MaxRetries(0).
		Do(ctx)
	return decodeApp(result)
}

func (c *Client) InvokeAction(ctx context.Context, repo string, action release.Action, payload *release.ActionPayload) error {
	c.logger.Debugf("Invoking action '%s' on cluster repository '%s'", action, repo)
	return c.postAction(ctx, []string{"v1", "catalog.cattle.io.clusterrepos", repo}, string(action), payload)
}

func (c *Client) Delete(ctx context.Context, namespace, name string) error {
	c.logger.Debugf("Invoking action '%s' on app '%s/%s'", actionUninstall, namespace, name)
	return c.postAction(ctx, []string{"v1", "catalog.cattle.io.apps", namespace, name}, actionUninstall,
		map[string]string{"timeout": c.uninstallTimeout})
}

func (c *Client) postAction(ctx context.Context, path []string, action string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &release.Error{Kind: release.Unknown, Message: fmt.Sprintf("failed to marshal payload of action '%s'", action), Err: err}
	}
	err = c.rest.Post().
		AbsPath(path...).
		Param("action", action).
		SetHeader("Content-Type", runtime.ContentTypeJSON).
		Body(data).
		MaxRetries(0).
		Do(ctx).
		Error()
	return toReleaseError(err)
}

//decodeApp converts the response into a resource, Result.Error() extracts a returned Status object
func decodeApp(result rest.Result) (*release.Resource, error) {
	if err := result.Error(); err != nil {
		return nil, toReleaseError(err)
	}
	body, err := result.Raw()
	if err != nil {
		return nil, toReleaseError(err)
	}
	app := &App{}
	if err := json.Unmarshal(body, app); err != nil {
		return nil, &release.Error{Kind: release.Unknown, Message: "failed to decode app", Err: err}
	}
	return app.toResource(), nil
}
