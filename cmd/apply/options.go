package cmd

import (
	"fmt"
	"os"
	"time"

	relCli "github.com/kyma-incubator/app-reconciler/internal/cli/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release/values"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

type Options struct {
	*relCli.Options
	Namespace    string
	Name         string
	ChartRepo    string
	ChartName    string
	ChartVersion string
	Action       string
	ProjectID    string
	RequestFile  string
	ValueFiles   []string
	SetValues    []string
	Wait         bool
	Timeout      time.Duration
}

func NewOptions(o *relCli.Options) *Options {
	return &Options{Options: o}
}

func (o *Options) Validate() error {
	if err := o.Options.Validate(); err != nil {
		return err
	}
	if o.Timeout < 0 {
		return fmt.Errorf("timeout cannot be < 0")
	}
	if o.RequestFile == "" && (o.Namespace == "" || o.Name == "") {
		return fmt.Errorf("namespace and name of the release are required (or use --request)")
	}
	return nil
}

//Request merges the request file with the flags (flags win) and resolves the values
func (o *Options) Request() (*release.Request, error) {
	req := &release.Request{}
	if o.RequestFile != "" {
		data, err := os.ReadFile(o.RequestFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read request file '%s'", o.RequestFile)
		}
		if err := yaml.Unmarshal(data, req); err != nil {
			return nil, errors.Wrapf(err, "failed to parse request file '%s'", o.RequestFile)
		}
	}

	override(&req.Namespace, o.Namespace)
	override(&req.Name, o.Name)
	override(&req.ChartRepo, o.ChartRepo)
	override(&req.ChartName, o.ChartName)
	override(&req.ChartVersion, o.ChartVersion)
	override(&req.ProjectID, o.ProjectID)
	if o.Action != "" {
		req.PreferredAction = release.Action(o.Action)
	}

	vals, err := values.NewBuilder().
		WithValues(req.Values).
		WithFiles(o.ValueFiles...).
		WithSet(o.SetValues...).
		Build()
	if err != nil {
		return nil, err
	}
	req.Values = vals

	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid release request")
	}
	return req, nil
}

func override(target *string, value string) {
	if value != "" {
		*target = value
	}
}
