package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kyma-incubator/app-reconciler/internal/cli"
	relCli "github.com/kyma-incubator/app-reconciler/internal/cli/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/spf13/cobra"
)

type Options struct {
	*relCli.Options
	Timeout time.Duration
	Absent  bool
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
	return nil
}

//NewCmd creates a new wait command
func NewCmd(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait NAMESPACE NAME",
		Short: "Wait until a release converged.",
		Long: `Poll a release until its observed generation caught up with its generation.
A missing release is tolerated until the timeout is reached.`,
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
	cmd.Flags().DurationVar(&o.Timeout, "timeout", 0, "Time to wait (default is the configured wait timeout)")
	cmd.Flags().BoolVar(&o.Absent, "absent", false, "Wait until the release was removed")
	return cmd
}

func Run(ctx context.Context, o *Options, client release.Client, namespace, name string, writer io.Writer) error {
	waiter, err := o.Waiter(client)
	if err != nil {
		return err
	}

	if o.Absent {
		if err := waiter.WaitUntilAbsent(ctx, namespace, name, o.Timeout); err != nil {
			return err
		}
		_, err := fmt.Fprintf(writer, "Release '%s/%s' is absent\n", namespace, name)
		return err
	}

	res, err := waiter.WaitUntilReady(ctx, namespace, name, o.Timeout)
	if err != nil {
		return err
	}
	return relCli.PrintResource(o.OutputFormat, writer, res)
}
