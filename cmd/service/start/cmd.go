package cmd

import (
	"context"

	"github.com/kyma-incubator/app-reconciler/internal/cli"
	relCli "github.com/kyma-incubator/app-reconciler/internal/cli/release"
	"github.com/kyma-incubator/app-reconciler/pkg/features"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release/service"
	"github.com/kyma-incubator/app-reconciler/pkg/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func NewCmd(o *relCli.ServiceOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the release reconciler service",
		Long:  "Start the REST API of the release reconciler and process submitted release operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Load()
			if err := o.Validate(); err != nil {
				return err
			}
			client, err := o.Client()
			if err != nil {
				return err
			}
			return Run(cli.NewContext(), o, client)
		},
	}
	if err := relCli.AddServiceFlags(cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}

//Run blocks until the context gets closed or one of the service components failed
func Run(ctx context.Context, o *relCli.ServiceOptions, client release.Client) error {
	g, ctx := errgroup.WithContext(ctx)

	svc, err := service.NewService(ctx, client, o.Logger(), o.ServiceConfig())
	if err != nil {
		return errors.Wrap(err, "failed to create release service")
	}

	webserver := &server.Webserver{
		Logger:     o.Logger(),
		Port:       o.ServerConfig.Port,
		SSLCrtFile: o.ServerConfig.SSLCrt,
		SSLKeyFile: o.ServerConfig.SSLKey,
		Router:     svc.Router(),
	}

	g.Go(func() error {
		return webserver.Start(ctx)
	})
	if features.Enabled(features.WorkerPoolOccupancyTracking) {
		g.Go(func() error {
			return service.NewOccupancyTracker(svc.WorkerPool(), o.WorkerConfig.OccupancyInterval, o.Logger()).Track(ctx)
		})
	}

	return g.Wait()
}
