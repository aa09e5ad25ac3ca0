package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const fanSubsystem = "fan"

type FanCollector struct {
	statuses    StatusSource
	dutyCycle   *prometheus.Desc
	rpm         *prometheus.Desc
	expectedRpm *prometheus.Desc
}

func NewFanCollector(statuses StatusSource) *FanCollector {
	return &FanCollector{
		statuses: statuses,
		dutyCycle: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "duty_cycle"),
			"Current PWM duty cycle of the fan in percent",
			[]string{"id"}, nil,
		),
		rpm: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "rpm"),
			"Last RPM reading of the fan",
			[]string{"id"}, nil,
		),
		expectedRpm: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "expected_rpm"),
			"Expected RPM of the fan at the selected speed",
			[]string{"id", "speed"}, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.dutyCycle
	ch <- collector.rpm
	ch <- collector.expectedRpm
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	for id, status := range collector.statuses.Items() {
		ch <- prometheus.MustNewConstMetric(collector.dutyCycle, prometheus.GaugeValue, float64(status.DutyCycle), id)
		ch <- prometheus.MustNewConstMetric(collector.rpm, prometheus.GaugeValue, float64(status.Rpm), id)
		ch <- prometheus.MustNewConstMetric(collector.expectedRpm, prometheus.GaugeValue, float64(status.ExpectedRpm), id, status.FanSpeed.String())
	}
}
