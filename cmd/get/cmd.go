package cmd

import (
	"context"
	"io"

	"github.com/kyma-incubator/app-reconciler/internal/cli"
	relCli "github.com/kyma-incubator/app-reconciler/internal/cli/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/spf13/cobra"
)

//NewCmd creates a new get command
func NewCmd(o *relCli.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get NAMESPACE NAME",
		Short: "Show the status of a release.",
		Long:  `Show generation, observed generation and state of a release.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Load()
			if err := o.Validate(); err != nil {
				return err
			}
			client, err := o.Client()
			if err != nil {
				return err
			}
			return Run(cli.NewContext(), o, client, args[0], args[1], cmd.OutOrStdout())
		},
	}
	return cmd
}

func Run(ctx context.Context, o *relCli.Options, client release.Client, namespace, name string, writer io.Writer) error {
	res, err := client.Get(ctx, namespace, name)
	if err != nil {
		return err
	}
	return relCli.PrintResource(o.OutputFormat, writer, res)
}
