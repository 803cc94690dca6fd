package release

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
	"github.com/hashicorp/go-multierror"
)

type Action string

const (
	ActionInstall Action = "install"
	ActionUpgrade Action = "upgrade"
)

const (
	AnnotationSourceRepoType = "catalog.cattle.io/ui-source-repo-type"
	AnnotationSourceRepo     = "catalog.cattle.io/ui-source-repo"
	LabelClusterRepoName     = "catalog.cattle.io/cluster-repo-name"

	sourceRepoTypeCluster = "cluster"
	defaultActionTimeout  = "600s"
)

//Request describes the desired state of a single release
type Request struct {
	Namespace       string                 `json:"namespace"`
	Name            string                 `json:"name"`
	ChartRepo       string                 `json:"chartRepo"`
	ChartName       string                 `json:"chartName"`
	ChartVersion    string                 `json:"chartVersion"`
	Values          map[string]interface{} `json:"values,omitempty"`
	PreferredAction Action                 `json:"preferredAction,omitempty"`
	ProjectID       string                 `json:"projectId,omitempty"`
}

func (r *Request) String() string {
	return fmt.Sprintf("Release [namespace:%s|name:%s|chart:%s/%s|version:%s|action:%s]",
		r.Namespace, r.Name, r.ChartRepo, r.ChartName, r.ChartVersion, r.action())
}

//action returns the preferred action, install is used when none was set
func (r *Request) action() Action {
	if r.PreferredAction == "" {
		return ActionInstall
	}
	return r.PreferredAction
}

func (r *Request) Validate() error {
	var result *multierror.Error
	if r.Namespace == "" {
		result = multierror.Append(result, fmt.Errorf("namespace is undefined"))
	}
	if r.Name == "" {
		result = multierror.Append(result, fmt.Errorf("release name is undefined"))
	}
	if r.ChartRepo == "" {
		result = multierror.Append(result, fmt.Errorf("chart repository is undefined"))
	}
	if r.ChartName == "" {
		result = multierror.Append(result, fmt.Errorf("chart name is undefined"))
	}
	if _, err := semver.NewVersion(r.ChartVersion); err != nil {
		result = multierror.Append(result, fmt.Errorf("chart version '%s' is not a semantic version: %s", r.ChartVersion, err))
	}
	switch r.PreferredAction {
	case "", ActionInstall, ActionUpgrade:
	default:
		result = multierror.Append(result, fmt.Errorf("preferred action '%s' is not supported", r.PreferredAction))
	}
	return result.ErrorOrNil()
}

//Resource is the remote representation of a release
type Resource struct {
	Name               string `json:"name"`
	Namespace          string `json:"namespace"`
	ResourceVersion    string `json:"resourceVersion"`
	Generation         int64  `json:"generation"`
	ObservedGeneration int64  `json:"observedGeneration"`
	State              string `json:"state"`
}

//Converged is true when the remote controller has processed the latest generation
func (r *Resource) Converged() bool {
	return r.ObservedGeneration >= r.Generation
}

func (r *Resource) String() string {
	return fmt.Sprintf("%s/%s [generation:%d|observedGeneration:%d|state:%s]",
		r.Namespace, r.Name, r.Generation, r.ObservedGeneration, r.State)
}

type WaitResult struct {
	Resource  *Resource
	Converged bool
}

//ActionOptions are the tuning flags sent with every repository-level action
type ActionOptions struct {
	Wait                     bool
	Timeout                  string
	NoHooks                  bool
	DisableOpenAPIValidation bool
	SkipCRDs                 bool
}

func DefaultActionOptions() ActionOptions {
	return ActionOptions{
		Wait:    true,
		Timeout: defaultActionTimeout,
	}
}

type ChartInstall struct {
	ChartName   string                 `json:"chartName"`
	Version     string                 `json:"version"`
	ReleaseName string                 `json:"releaseName"`
	Annotations map[string]string      `json:"annotations,omitempty"`
	Values      map[string]interface{} `json:"values"`
}

//ActionPayload is the body of a repository-level install or upgrade action
type ActionPayload struct {
	Charts                   []ChartInstall `json:"charts"`
	Namespace                string         `json:"namespace"`
	ProjectID                string         `json:"projectId,omitempty"`
	Wait                     bool           `json:"wait"`
	Timeout                  string         `json:"timeout"`
	NoHooks                  bool           `json:"noHooks"`
	DisableOpenAPIValidation bool           `json:"disableOpenAPIValidation"`
	SkipCRDs                 bool           `json:"skipCRDs"`
}

func NewActionPayload(req *Request, opts ActionOptions) *ActionPayload {
	values := req.Values
	if values == nil {
		values = map[string]interface{}{}
	}
	timeout := opts.Timeout
	if timeout == "" {
		timeout = defaultActionTimeout
	}
	return &ActionPayload{
		Charts: []ChartInstall{
			{
				ChartName:   req.ChartName,
				Version:     req.ChartVersion,
				ReleaseName: req.Name,
				Annotations: map[string]string{
					AnnotationSourceRepoType: sourceRepoTypeCluster,
					AnnotationSourceRepo:     req.ChartRepo,
				},
				Values: values,
			},
		},
		Namespace:                req.Namespace,
		ProjectID:                req.ProjectID,
		Wait:                     opts.Wait,
		Timeout:                  timeout,
		NoHooks:                  opts.NoHooks,
		DisableOpenAPIValidation: opts.DisableOpenAPIValidation,
		SkipCRDs:                 opts.SkipCRDs,
	}
}
