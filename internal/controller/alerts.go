package controller

import (
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/ui"
)

func (c *PaprController) alertLEDs() []hardware.Pin {
	switch c.currentAlert {
	case AlertBatteryLow:
		return batteryAlertLEDs
	case AlertFanRPM:
		return fanAlertLEDs
	}
	return nil
}

// alertCadence returns how long the alert indicators stay on and off.
func (c *PaprController) alertCadence() (onMillis uint32, offMillis uint32) {
	if c.currentAlert == AlertFanRPM {
		return toMillis(c.config.Alerts.FanOn), toMillis(c.config.Alerts.FanOff)
	}
	return toMillis(c.config.Alerts.BatteryOn), toMillis(c.config.Alerts.BatteryOff)
}

func (c *PaprController) onToggleAlert() {
	c.alertToggle = !c.alertToggle
	c.setLEDs(c.alertLEDs(), c.alertToggle)
	c.setBuzzer(c.alertToggle)

	onMillis, offMillis := c.alertCadence()
	if c.alertToggle {
		c.alertTimer.Start(onMillis)
	} else {
		c.alertTimer.Start(offMillis)
	}
}

func (c *PaprController) raiseAlert(alert Alert) {
	c.currentAlert = alert
	switch alert {
	case AlertBatteryLow:
		c.statistics.BatteryAlerts++
	case AlertFanRPM:
		c.statistics.FanAlerts++
	}
	ui.Serial("Begin %s Alert", alert)
	c.alertToggle = false
	c.onToggleAlert()
	c.onStatusReport()
}

func (c *PaprController) cancelAlert() {
	if c.currentAlert != AlertNone {
		ui.Serial("End %s Alert", c.currentAlert)
	}
	c.currentAlert = AlertNone
	c.alertTimer.Cancel()
}

func (c *PaprController) checkForFanAlert() {
	// reading the rpm also keeps the measurement going
	rpm := c.fan.GetRpm()

	if c.fanSpeedRecentlyChanged {
		if c.hw.Millis()-c.lastFanSpeedChangeMillis < toMillis(c.config.Fan.StabilizeTime) {
			return
		}
		c.fanSpeedRecentlyChanged = false
	}

	if !c.speeds.IsRpmInRange(rpm, c.currentFanSpeed) {
		lowest, highest := c.speeds.RpmRange(c.currentFanSpeed)
		ui.Debug("Fan RPM %d out of range [%d, %d] for speed %s", rpm, lowest, highest, c.currentFanSpeed)
		c.raiseAlert(AlertFanRPM)
	}
}

func (c *PaprController) checkForBatteryAlert() {
	percent := c.battery.PercentFull()
	charging := c.state == StateOnCharging
	urgent := c.config.Alerts.UrgentBatteryPercent

	if c.currentAlert == AlertBatteryLow {
		if !c.config.Alerts.StickyBatteryLow && (charging || percent > urgent) {
			c.cancelAlert()
			c.setBuzzer(false)
		}
		return
	}

	if percent <= urgent && !charging {
		c.chargeReminder.Stop()
		c.beepTimer.Cancel()
		c.raiseAlert(AlertBatteryLow)
	}
}
