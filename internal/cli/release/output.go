package release

import (
	"io"

	"github.com/kyma-incubator/app-reconciler/internal/cli"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
)

//PrintResource renders a release in the requested output format
func PrintResource(format string, writer io.Writer, res *release.Resource) error {
	of, err := cli.NewOutputFormatter(format)
	if err != nil {
		return err
	}
	if err := of.Header("Namespace", "Name", "Generation", "ObservedGeneration", "State", "Converged"); err != nil {
		return err
	}
	if err := of.AddRow(res.Namespace, res.Name, res.Generation, res.ObservedGeneration, res.State, res.Converged()); err != nil {
		return err
	}
	return of.Output(writer)
}
