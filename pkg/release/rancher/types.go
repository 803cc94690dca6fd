package rancher

import (
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	appAPIVersion = "catalog.cattle.io/v1"
	appKind       = "App"

	conditionReady = "Ready"
	stateUnknown   = "Unknown"
)

//App is the catalog.cattle.io/v1 App resource as far as it is relevant for the reconciler
type App struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   AppSpec   `json:"spec,omitempty"`
	Status AppStatus `json:"status,omitempty"`
}

type AppSpec struct {
	Name      string                 `json:"name,omitempty"`
	Namespace string                 `json:"namespace,omitempty"`
	Chart     *Chart                 `json:"chart,omitempty"`
	Values    map[string]interface{} `json:"values,omitempty"`
}

type Chart struct {
	Metadata ChartMetadata `json:"metadata"`
}

type ChartMetadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type AppStatus struct {
	ObservedGeneration int64       `json:"observedGeneration,omitempty"`
	Summary            Summary     `json:"summary,omitempty"`
	Conditions         []Condition `json:"conditions,omitempty"`
}

type Summary struct {
	State         string `json:"state,omitempty"`
	Transitioning bool   `json:"transitioning,omitempty"`
	Error         bool   `json:"error,omitempty"`
}

type Condition struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func newApp(req *release.Request, resourceVersion string) *App {
	values := req.Values
	if values == nil {
		values = map[string]interface{}{}
	}
	return &App{
		TypeMeta: metav1.TypeMeta{
			APIVersion: appAPIVersion,
			Kind:       appKind,
		},
		ObjectMeta: metav1.ObjectMeta{
			Namespace: req.Namespace,
			Name:      req.Name,
			Labels: map[string]string{
				release.LabelClusterRepoName: req.ChartRepo,
			},
			ResourceVersion: resourceVersion,
		},
		Spec: AppSpec{
			Name:      req.Name,
			Namespace: req.Namespace,
			Chart: &Chart{
				Metadata: ChartMetadata{
					Name:    req.ChartName,
					Version: req.ChartVersion,
				},
			},
			Values: values,
		},
	}
}

//state prefers the summary state and falls back to the status of the Ready condition
func (a *App) state() string {
	if a.Status.Summary.State != "" {
		return a.Status.Summary.State
	}
	for _, cond := range a.Status.Conditions {
		if cond.Type == conditionReady && cond.Status != "" {
			return cond.Status
		}
	}
	return stateUnknown
}

func (a *App) toResource() *release.Resource {
	return &release.Resource{
		Name:               a.Name,
		Namespace:          a.Namespace,
		ResourceVersion:    a.ResourceVersion,
		Generation:         a.Generation,
		ObservedGeneration: a.Status.ObservedGeneration,
		State:              a.state(),
	}
}
