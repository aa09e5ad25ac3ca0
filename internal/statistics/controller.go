package statistics

import (
	"github.com/markusressel/papr2go/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

var (
	powerStates = []controller.PowerState{controller.StateOff, controller.StateOn, controller.StateOffCharging, controller.StateOnCharging}
	alerts      = []controller.Alert{controller.AlertBatteryLow, controller.AlertFanRPM}
)

type ControllerCollector struct {
	statuses StatusSource

	state         *prometheus.Desc
	alert         *prometheus.Desc
	stateChanges  *prometheus.Desc
	batteryAlerts *prometheus.Desc
	fanAlerts     *prometheus.Desc
	naps          *prometheus.Desc
}

func NewControllerCollector(statuses StatusSource) *ControllerCollector {
	return &ControllerCollector{
		statuses: statuses,
		state: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "state"),
			"1 for the current power state of the device, 0 for all others",
			[]string{"id", "state"}, nil,
		),
		alert: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "alert"),
			"1 if the alert is active, 0 otherwise",
			[]string{"id", "alert"}, nil,
		),
		stateChanges: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "state_changes_count"),
			"Counter for power state changes since the last reset",
			[]string{"id"}, nil,
		),
		batteryAlerts: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "battery_alert_count"),
			"Counter for low battery alerts since the last reset",
			[]string{"id"}, nil,
		),
		fanAlerts: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "fan_alert_count"),
			"Counter for fan RPM alerts since the last reset",
			[]string{"id"}, nil,
		),
		naps: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "nap_count"),
			"Counter for naps in low power mode since the last reset",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.state
	ch <- collector.alert
	ch <- collector.stateChanges
	ch <- collector.batteryAlerts
	ch <- collector.fanAlerts
	ch <- collector.naps
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for id, status := range collector.statuses.Items() {
		for _, state := range powerStates {
			ch <- prometheus.MustNewConstMetric(collector.state, prometheus.GaugeValue, boolToFloat(status.State == state), id, state.String())
		}
		for _, alert := range alerts {
			ch <- prometheus.MustNewConstMetric(collector.alert, prometheus.GaugeValue, boolToFloat(status.Alert == alert), id, alert.String())
		}
		stats := status.Statistics
		ch <- prometheus.MustNewConstMetric(collector.stateChanges, prometheus.CounterValue, float64(stats.StateChanges), id)
		ch <- prometheus.MustNewConstMetric(collector.batteryAlerts, prometheus.CounterValue, float64(stats.BatteryAlerts), id)
		ch <- prometheus.MustNewConstMetric(collector.fanAlerts, prometheus.CounterValue, float64(stats.FanAlerts), id)
		ch <- prometheus.MustNewConstMetric(collector.naps, prometheus.CounterValue, float64(stats.Naps), id)
	}
}
