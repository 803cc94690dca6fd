package release

import (
	"fmt"
	"time"

	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release/rancher"
	"github.com/pkg/errors"
)

type RancherConfig struct {
	URL        string
	Token      string
	ClusterID  string
	Insecure   bool
	Timeout    time.Duration
	Kubeconfig string
}

func (c *RancherConfig) validate() error {
	if c.Kubeconfig == "" && c.URL == "" {
		return fmt.Errorf("Rancher URL or kubeconfig is required: use --rancher-url or --kubeconfig")
	}
	if c.URL != "" && c.Kubeconfig == "" && c.Token == "" {
		return fmt.Errorf("Rancher API token is required when connecting by URL")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("rancher-timeout cannot be < 0")
	}
	return nil
}

type WaitConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

func (c *WaitConfig) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("wait-interval has to be > 0")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("wait-timeout has to be > 0")
	}
	return nil
}

func (c *WaitConfig) waiterConfig() release.WaiterConfig {
	return release.WaiterConfig{
		Interval: c.Interval,
		Timeout:  c.Timeout,
	}
}

type DeleteConfig struct {
	Pause            time.Duration
	AbsenceTimeout   time.Duration
	UninstallTimeout time.Duration
}

func (c *DeleteConfig) validate() error {
	if c.Pause < 0 {
		return fmt.Errorf("delete-pause cannot be < 0")
	}
	if c.AbsenceTimeout < 0 {
		return fmt.Errorf("delete-absence-timeout cannot be < 0")
	}
	if c.UninstallTimeout <= 0 {
		return fmt.Errorf("uninstall-timeout has to be > 0")
	}
	return nil
}

func (c *DeleteConfig) deleterConfig() release.DeleterConfig {
	return release.DeleterConfig{
		Pause:          c.Pause,
		AbsenceTimeout: c.AbsenceTimeout,
	}
}

type ActionConfig struct {
	Timeout                  time.Duration
	Wait                     bool
	NoHooks                  bool
	DisableOpenAPIValidation bool
	SkipCRDs                 bool
}

func (c *ActionConfig) validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("action-timeout has to be > 0")
	}
	return nil
}

func (c *ActionConfig) actionOptions() release.ActionOptions {
	return release.ActionOptions{
		Wait:                     c.Wait,
		Timeout:                  durationString(c.Timeout),
		NoHooks:                  c.NoHooks,
		DisableOpenAPIValidation: c.DisableOpenAPIValidation,
		SkipCRDs:                 c.SkipCRDs,
	}
}

//durationString renders a duration in whole seconds (e.g. "600s") as expected by the catalog API
func durationString(d time.Duration) string {
	return fmt.Sprintf("%ds", int64(d.Round(time.Second)/time.Second))
}

func clientConfig(rancherCfg *RancherConfig, deleteCfg *DeleteConfig) rancher.Config {
	return rancher.Config{
		Kubeconfig:       rancherCfg.Kubeconfig,
		URL:              rancherCfg.URL,
		Token:            rancherCfg.Token,
		ClusterID:        rancherCfg.ClusterID,
		Insecure:         rancherCfg.Insecure,
		Timeout:          rancherCfg.Timeout,
		UninstallTimeout: durationString(deleteCfg.UninstallTimeout),
	}
}

func wrapConfigErr(err error, group string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "invalid %s configuration", group)
}
