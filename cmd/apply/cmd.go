package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/kyma-incubator/app-reconciler/internal/cli"
	relCli "github.com/kyma-incubator/app-reconciler/internal/cli/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/spf13/cobra"
)

//NewCmd creates a new apply command
func NewCmd(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Install or upgrade a release.",
		Long: `Drive a catalog app towards the requested chart version and values.
* An existing release is updated in place, a missing one gets installed
* Use --action upgrade to run the upgrade action of the chart repository`,
		Example: `  app-reconciler apply -n cattle-monitoring-system --name rancher-monitoring \
    --repo rancher-charts --chart rancher-monitoring --version 100.1.0 -f values.yaml --wait`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Load()
			if err := o.Validate(); err != nil {
				return err
			}
			client, err := o.Client()
			if err != nil {
				return err
			}
			return Run(cli.NewContext(), o, client, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&o.Namespace, "namespace", "n", "", "Namespace of the release")
	cmd.Flags().StringVar(&o.Name, "name", "", "Name of the release")
	cmd.Flags().StringVar(&o.ChartRepo, "repo", "", "Name of the cluster repository providing the chart")
	cmd.Flags().StringVar(&o.ChartName, "chart", "", "Name of the chart")
	cmd.Flags().StringVar(&o.ChartVersion, "version", "", "Version of the chart (semantic version)")
	cmd.Flags().StringVar(&o.Action, "action", "", `Preferred action ("install" or "upgrade", default "install")`)
	cmd.Flags().StringVar(&o.ProjectID, "project", "", "ID of the Rancher project the release belongs to")
	cmd.Flags().StringVar(&o.RequestFile, "request", "", "YAML or JSON file containing the release request")
	cmd.Flags().StringSliceVarP(&o.ValueFiles, "values", "f", nil, "Values file (can be repeated, later files win)")
	cmd.Flags().StringArrayVar(&o.SetValues, "set", nil, "Set values in the notation of 'helm --set' (can be repeated)")
	cmd.Flags().BoolVar(&o.Wait, "wait", false, "Wait until the release converged")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", 0, "Time to wait for the release (default is the configured wait timeout)")
	return cmd
}

func Run(ctx context.Context, o *Options, client release.Client, writer io.Writer) error {
	req, err := o.Request()
	if err != nil {
		return err
	}

	if err := o.Reconciler(client).Apply(ctx, req); err != nil {
		return err
	}

	if !o.Wait {
		_, err := fmt.Fprintf(writer, "Release '%s/%s' applied\n", req.Namespace, req.Name)
		return err
	}

	waiter, err := o.Waiter(client)
	if err != nil {
		return err
	}
	res, err := waiter.WaitUntilReady(ctx, req.Namespace, req.Name, o.Timeout)
	if err != nil {
		return err
	}
	return relCli.PrintResource(o.OutputFormat, writer, res)
}
