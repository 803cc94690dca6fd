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

//NewCmd creates a new delete command
func NewCmd(o *relCli.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete NAMESPACE NAME",
		Short: "Uninstall a release.",
		Long: `Run the uninstall action of a release.
The command pauses afterwards (see --delete-pause) or polls until the release
disappeared if --delete-absence-timeout is set.`,
		Args: cobra.ExactArgs(2),
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
	waiter, err := o.Waiter(client)
	if err != nil {
		return err
	}
	deleter, err := o.Deleter(client, waiter)
	if err != nil {
		return err
	}
	if err := deleter.Delete(ctx, namespace, name); err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer, "Release '%s/%s' deleted\n", namespace, name)
	return err
}
