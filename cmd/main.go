package main

import (
	"fmt"
	"os"

	applyCmd "github.com/kyma-incubator/app-reconciler/cmd/apply"
	deleteCmd "github.com/kyma-incubator/app-reconciler/cmd/delete"
	getCmd "github.com/kyma-incubator/app-reconciler/cmd/get"
	svcCmd "github.com/kyma-incubator/app-reconciler/cmd/service"
	waitCmd "github.com/kyma-incubator/app-reconciler/cmd/wait"
	"github.com/kyma-incubator/app-reconciler/internal/cli"
	relCli "github.com/kyma-incubator/app-reconciler/internal/cli/release"
)

func main() {
	o := &cli.Options{}
	cmd := cli.NewRootCommand(
		o,
		"app-reconciler",
		"Declarative release reconciler for Rancher",
		"Command line tool to install, upgrade, wait for and uninstall catalog apps of a Rancher managed cluster")

	if err := relCli.AddFlags(cmd.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	relOpts := relCli.NewOptions(o) //decorate options with release-specific options
	cmd.AddCommand(applyCmd.NewCmd(applyCmd.NewOptions(relOpts)))
	cmd.AddCommand(getCmd.NewCmd(relOpts))
	cmd.AddCommand(waitCmd.NewCmd(waitCmd.NewOptions(relOpts)))
	cmd.AddCommand(deleteCmd.NewCmd(relOpts))
	cmd.AddCommand(svcCmd.NewCmd(relOpts))

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
