package statistics

import (
	"github.com/markusressel/papr2go/internal/controller"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "papr2go"
)

// StatusSource holds the latest status report of every device, by device id.
type StatusSource = cmap.ConcurrentMap[string, controller.Status]

func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}

// RegisterAll registers the collectors of all firmware metrics.
func RegisterAll(statuses StatusSource) {
	Register(NewBatteryCollector(statuses))
	Register(NewFanCollector(statuses))
	Register(NewControllerCollector(statuses))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
