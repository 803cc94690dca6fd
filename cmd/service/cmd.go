package cmd

import (
	startCmd "github.com/kyma-incubator/app-reconciler/cmd/service/start"
	relCli "github.com/kyma-incubator/app-reconciler/internal/cli/release"
	"github.com/spf13/cobra"
)

func NewCmd(o *relCli.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Run the release reconciler as a service",
		Long:  "Run the release reconciler as a REST service which executes release operations asynchronously",
	}

	svcOpts := relCli.NewServiceOptions(o)
	cmd.AddCommand(startCmd.NewCmd(svcOpts))
	return cmd
}
