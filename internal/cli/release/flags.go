package release

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//configuration keys (usable in the config file or as APP_RECONCILER_* ENV var)
const (
	KeyRancherURL                     = "rancher.url"
	KeyRancherToken                   = "rancher.token"
	KeyRancherClusterID               = "rancher.clusterID"
	KeyRancherInsecure                = "rancher.insecure"
	KeyRancherTimeout                 = "rancher.timeout"
	KeyKubeconfig                     = "kubeconfig"
	KeyWaitInterval                   = "wait.interval"
	KeyWaitTimeout                    = "wait.timeout"
	KeyDeletePause                    = "delete.pause"
	KeyDeleteAbsenceTimeout           = "delete.absenceTimeout"
	KeyDeleteUninstallTimeout         = "delete.uninstallTimeout"
	KeyActionTimeout                  = "action.timeout"
	KeyActionWait                     = "action.wait"
	KeyActionNoHooks                  = "action.noHooks"
	KeyActionDisableOpenAPIValidation = "action.disableOpenAPIValidation"
	KeyActionSkipCRDs                 = "action.skipCRDs"
)

//AddFlags registers the release flags and binds them to their configuration keys
func AddFlags(flags *pflag.FlagSet) error {
	//Rancher connection
	flags.String("rancher-url", "", "URL of the Rancher server")
	flags.String("rancher-token", "", "Rancher API token (prefer the ENV var APP_RECONCILER_RANCHER_TOKEN)")
	flags.String("rancher-cluster", "local", "ID of the Rancher managed cluster")
	flags.Bool("rancher-insecure", false, "Skip verification of the Rancher TLS certificate")
	flags.Duration("rancher-timeout", 30*time.Second, "Timeout of a single request against the Rancher API")
	flags.String("kubeconfig", "", "Path to a kubeconfig pointing to the Rancher cluster endpoint (replaces URL and token)")

	//status polling
	flags.Duration("wait-interval", 1500*time.Millisecond, "Interval between two status polls")
	flags.Duration("wait-timeout", 90*time.Second, "Default time to wait for a release to converge")

	//deletion
	flags.Duration("delete-pause", 5*time.Second, "Pause after the uninstall action was accepted")
	flags.Duration("delete-absence-timeout", 0, "Poll until the release disappeared instead of pausing (0 disables polling)")
	flags.Duration("uninstall-timeout", 600*time.Second, "Timeout passed to the uninstall action")

	//install and upgrade actions
	flags.Duration("action-timeout", 600*time.Second, "Timeout passed to install and upgrade actions")
	flags.Bool("action-wait", true, "Let install and upgrade actions wait for the workloads")
	flags.Bool("no-hooks", false, "Disable chart hooks of install and upgrade actions")
	flags.Bool("disable-openapi-validation", false, "Disable OpenAPI validation of install and upgrade actions")
	flags.Bool("skip-crds", false, "Skip CRDs during install and upgrade actions")

	return bindFlags(flags, map[string]string{
		KeyRancherURL:                     "rancher-url",
		KeyRancherToken:                   "rancher-token",
		KeyRancherClusterID:               "rancher-cluster",
		KeyRancherInsecure:                "rancher-insecure",
		KeyRancherTimeout:                 "rancher-timeout",
		KeyKubeconfig:                     "kubeconfig",
		KeyWaitInterval:                   "wait-interval",
		KeyWaitTimeout:                    "wait-timeout",
		KeyDeletePause:                    "delete-pause",
		KeyDeleteAbsenceTimeout:           "delete-absence-timeout",
		KeyDeleteUninstallTimeout:         "uninstall-timeout",
		KeyActionTimeout:                  "action-timeout",
		KeyActionWait:                     "action-wait",
		KeyActionNoHooks:                  "no-hooks",
		KeyActionDisableOpenAPIValidation: "disable-openapi-validation",
		KeyActionSkipCRDs:                 "skip-crds",
	})
}

func bindFlags(flags *pflag.FlagSet, bindings map[string]string) error {
	for key, flagName := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flagName)); err != nil {
			return errors.Wrapf(err, "failed to bind flag '%s' to configuration key '%s'", flagName, key)
		}
	}
	return nil
}
