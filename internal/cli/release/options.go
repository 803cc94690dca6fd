package release

import (
	"github.com/kyma-incubator/app-reconciler/internal/cli"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release/rancher"
	"github.com/spf13/viper"
)

type Options struct {
	*cli.Options
	RancherConfig *RancherConfig
	WaitConfig    *WaitConfig
	DeleteConfig  *DeleteConfig
	ActionConfig  *ActionConfig
}

func NewOptions(o *cli.Options) *Options {
	return &Options{
		o,
		&RancherConfig{},
		&WaitConfig{},
		&DeleteConfig{},
		&ActionConfig{},
	}
}

//Load populates the configuration from viper (flags, ENV vars and config file)
func (o *Options) Load() {
	o.RancherConfig.URL = viper.GetString(KeyRancherURL)
	o.RancherConfig.Token = viper.GetString(KeyRancherToken)
	o.RancherConfig.ClusterID = viper.GetString(KeyRancherClusterID)
	o.RancherConfig.Insecure = viper.GetBool(KeyRancherInsecure)
	o.RancherConfig.Timeout = viper.GetDuration(KeyRancherTimeout)
	o.RancherConfig.Kubeconfig = viper.GetString(KeyKubeconfig)

	o.WaitConfig.Interval = viper.GetDuration(KeyWaitInterval)
	o.WaitConfig.Timeout = viper.GetDuration(KeyWaitTimeout)

	o.DeleteConfig.Pause = viper.GetDuration(KeyDeletePause)
	o.DeleteConfig.AbsenceTimeout = viper.GetDuration(KeyDeleteAbsenceTimeout)
	o.DeleteConfig.UninstallTimeout = viper.GetDuration(KeyDeleteUninstallTimeout)

	o.ActionConfig.Timeout = viper.GetDuration(KeyActionTimeout)
	o.ActionConfig.Wait = viper.GetBool(KeyActionWait)
	o.ActionConfig.NoHooks = viper.GetBool(KeyActionNoHooks)
	o.ActionConfig.DisableOpenAPIValidation = viper.GetBool(KeyActionDisableOpenAPIValidation)
	o.ActionConfig.SkipCRDs = viper.GetBool(KeyActionSkipCRDs)
}

func (o *Options) Validate() error {
	if err := o.RancherConfig.validate(); err != nil {
		return wrapConfigErr(err, "Rancher")
	}
	if err := o.WaitConfig.validate(); err != nil {
		return wrapConfigErr(err, "wait")
	}
	if err := o.DeleteConfig.validate(); err != nil {
		return wrapConfigErr(err, "delete")
	}
	return wrapConfigErr(o.ActionConfig.validate(), "action")
}

func (o *Options) Client() (*rancher.Client, error) {
	return rancher.NewClient(clientConfig(o.RancherConfig, o.DeleteConfig), o.Logger())
}

func (o *Options) Reconciler(client release.Client) *release.Reconciler {
	return release.NewReconciler(client, o.Logger()).WithActionOptions(o.ActionConfig.actionOptions())
}

func (o *Options) Waiter(client release.Client) (*release.Waiter, error) {
	return release.NewWaiter(client, o.Logger(), o.WaitConfig.waiterConfig())
}

func (o *Options) Deleter(client release.Client, waiter *release.Waiter) (*release.Deleter, error) {
	return release.NewDeleter(client, waiter, o.Logger(), o.DeleteConfig.deleterConfig())
}
