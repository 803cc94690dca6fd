package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const prometheusSubsystem = "app_reconciler"

func RegisterAll(registerer prometheus.Registerer, collectors ...prometheus.Collector) error {
	for _, collector := range collectors {
		if collector == nil {
			continue
		}
		if err := registerer.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
