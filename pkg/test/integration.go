package test

import (
	"os"
	"strings"
	"testing"
)

const (
	EnvIntegrationTests = "RECONCILER_INTEGRATION_TESTS"
	EnvRancherURL       = "RANCHER_URL"
	EnvRancherToken     = "RANCHER_TOKEN"
	EnvRancherCluster   = "RANCHER_CLUSTER"
)

func RunIntegrationTests() bool {
	integrationTests, ok := os.LookupEnv(EnvIntegrationTests)
	if !ok {
		return false
	}
	return integrationTests == "1" || strings.ToLower(integrationTests) == "true"
}

func EnableIntegrationTests() error {
	return os.Setenv(EnvIntegrationTests, "true")
}

func DisableIntegrationTests() error {
	return os.Unsetenv(EnvIntegrationTests)
}

//IntegrationTest skips the test unless integration tests are enabled
func IntegrationTest(t *testing.T) {
	if !RunIntegrationTests() {
		t.Skipf("Integration tests disabled: set env-var '%s' to 'true' to run them", EnvIntegrationTests)
	}
}

type Rancher struct {
	URL       string
	Token     string
	ClusterID string
}

//RancherEnv returns the coordinates of a real Rancher server or skips the test if they are incomplete
func RancherEnv(t *testing.T) Rancher {
	IntegrationTest(t)
	rancher := Rancher{
		URL:       os.Getenv(EnvRancherURL),
		Token:     os.Getenv(EnvRancherToken),
		ClusterID: os.Getenv(EnvRancherCluster),
	}
	if rancher.URL == "" || rancher.Token == "" {
		t.Skipf("Integration test requires env-vars '%s' and '%s'", EnvRancherURL, EnvRancherToken)
	}
	return rancher
}
