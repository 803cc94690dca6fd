package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/kyma-incubator/app-reconciler/internal/cli"
	relCli "github.com/kyma-incubator/app-reconciler/internal/cli/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	o := relCli.NewOptions(&cli.Options{OutputFormat: "yaml"})

	t.Run("Existing release", func(t *testing.T) {
		client := mocks.NewClient(t)
		client.On("Get", mock.Anything, "suse-ai", "ollama").Return(&release.Resource{
			Namespace:          "suse-ai",
			Name:               "ollama",
			Generation:         2,
			ObservedGeneration: 1,
			State:              "deploying",
		}, nil).Once()

		var buffer bytes.Buffer
		require.NoError(t, Run(context.Background(), o, client, "suse-ai", "ollama", &buffer))
		require.YAMLEq(t, `
- namespace: suse-ai
  name: ollama
  generation: 2
  observedgeneration: 1
  state: deploying
  converged: false
`, buffer.String())
	})

	t.Run("Missing release", func(t *testing.T) {
		client := mocks.NewClient(t)
		client.On("Get", mock.Anything, "suse-ai", "ollama").
			Return(nil, &release.Error{Kind: release.NotFound, Code: 404, Message: "not found"}).Once()

		err := Run(context.Background(), o, client, "suse-ai", "ollama", &bytes.Buffer{})
		require.True(t, release.IsNotFound(err))
	})
}
