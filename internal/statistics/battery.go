package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const batterySubsystem = "battery"

type BatteryCollector struct {
	statuses StatusSource

	percent    *prometheus.Desc
	coulombs   *prometheus.Desc
	milliVolts *prometheus.Desc
	milliAmps  *prometheus.Desc
	charging   *prometheus.Desc
}

func NewBatteryCollector(statuses StatusSource) *BatteryCollector {
	return &BatteryCollector{
		statuses: statuses,
		percent: prometheus.NewDesc(prometheus.BuildFQName(namespace, batterySubsystem, "percent"),
			"Estimated state of charge of the battery in percent",
			[]string{"id"}, nil,
		),
		coulombs: prometheus.NewDesc(prometheus.BuildFQName(namespace, batterySubsystem, "coulombs"),
			"Estimated charge of the battery in coulombs",
			[]string{"id"}, nil,
		),
		milliVolts: prometheus.NewDesc(prometheus.BuildFQName(namespace, batterySubsystem, "millivolts"),
			"Battery voltage in millivolts",
			[]string{"id"}, nil,
		),
		milliAmps: prometheus.NewDesc(prometheus.BuildFQName(namespace, batterySubsystem, "milliamps"),
			"Battery current in milliamps, positive while charging",
			[]string{"id"}, nil,
		),
		charging: prometheus.NewDesc(prometheus.BuildFQName(namespace, batterySubsystem, "charging"),
			"1 if the battery is charging, 0 otherwise",
			[]string{"id"}, nil,
		),
	}
}

func (collector *BatteryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.percent
	ch <- collector.coulombs
	ch <- collector.milliVolts
	ch <- collector.milliAmps
	ch <- collector.charging
}

// Collect implements required collect function for all prometheus collectors
func (collector *BatteryCollector) Collect(ch chan<- prometheus.Metric) {
	for id, status := range collector.statuses.Items() {
		ch <- prometheus.MustNewConstMetric(collector.percent, prometheus.GaugeValue, float64(status.PercentFull), id)
		ch <- prometheus.MustNewConstMetric(collector.coulombs, prometheus.GaugeValue, float64(status.Coulombs), id)
		ch <- prometheus.MustNewConstMetric(collector.milliVolts, prometheus.GaugeValue, float64(status.MilliVolts), id)
		ch <- prometheus.MustNewConstMetric(collector.milliAmps, prometheus.GaugeValue, float64(status.MilliAmps), id)
		ch <- prometheus.MustNewConstMetric(collector.charging, prometheus.GaugeValue, boolToFloat(status.Charging), id)
	}
}
