package features

import (
	"os"
	"strings"
)

type Feature int

const (
	WorkerPoolOccupancyTracking Feature = iota + 1
	GoRuntimeMetrics
)

// define the mapping between feature name and env var name
var featureEnVarMap = map[Feature]string{
	WorkerPoolOccupancyTracking: "APP_RECONCILER_OCCUPANCY_TRACKING_ENABLED",
	GoRuntimeMetrics:            "APP_RECONCILER_GO_METRICS_ENABLED",
}

func Enabled(feature Feature) bool {
	return checkEnvVar(envVar(feature))
}

func envVar(feature Feature) string {
	return featureEnVarMap[feature]
}

func checkEnvVar(envVar string) bool {
	enabled := os.Getenv(envVar)
	return strings.ToLower(enabled) == "true" || enabled == "1"
}
