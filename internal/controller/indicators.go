package controller

import (
	"github.com/markusressel/papr2go/internal/fans"
	"github.com/markusressel/papr2go/internal/hardware"
)

var (
	batteryAlertLEDs = []hardware.Pin{hardware.BatteryRedLEDPin, hardware.ChargingLEDPin}
	fanAlertLEDs     = []hardware.Pin{hardware.FanLowLEDPin, hardware.FanMediumLEDPin, hardware.FanHighLEDPin}
)

func (c *PaprController) setLED(pin hardware.Pin, on bool) {
	c.leds[pin] = on
	if on {
		c.hw.DigitalWrite(pin, hardware.LEDOn)
	} else {
		c.hw.DigitalWrite(pin, hardware.LEDOff)
	}
}

func (c *PaprController) setLEDs(pins []hardware.Pin, on bool) {
	for _, pin := range pins {
		c.setLED(pin, on)
	}
}

func (c *PaprController) allLEDsOff() {
	c.setLEDs(hardware.LEDPins, false)
}

func (c *PaprController) flashAllLEDs(millis uint32, count int) {
	for i := 0; i < count; i++ {
		c.setLEDs(hardware.LEDPins, true)
		c.hw.Delay(millis)
		c.setLEDs(hardware.LEDPins, false)
		c.hw.Delay(millis)
	}
}

func (c *PaprController) updateFanLEDs() {
	c.setLED(hardware.FanLowLEDPin, true)
	c.setLED(hardware.FanMediumLEDPin, c.currentFanSpeed > fans.Low)
	c.setLED(hardware.FanHighLEDPin, c.currentFanSpeed == fans.High)
}

func (c *PaprController) updateBatteryLEDs() {
	percent := c.battery.PercentFull()
	urgent := c.config.Alerts.UrgentBatteryPercent

	redOn := percent < redLEDThresholdPercent
	if percent <= urgent {
		redOn = (c.hw.Millis()/redLEDBlinkPeriodMillis)&1 == 1
	}
	c.setLED(hardware.BatteryRedLEDPin, redOn)
	c.setLED(hardware.BatteryYellowLEDPin, percent > yellowLEDLowerPercent && percent < yellowLEDUpperPercent)
	c.setLED(hardware.BatteryGreenLEDPin, percent > greenLEDThresholdPercent)

	charging := c.state == StateOnCharging || c.state == StateOffCharging
	c.setLED(hardware.ChargingLEDPin, charging)

	if !c.state.IsOn() {
		return
	}

	remind := !charging && percent <= c.config.Alerts.ChargeReminderPercent && c.currentAlert != AlertBatteryLow
	if remind {
		if !c.chargeReminder.IsActive() {
			c.onChargeReminder()
			c.chargeReminder.Start()
		}
	} else {
		c.chargeReminder.Stop()
	}
}

func (c *PaprController) onChargeReminder() {
	c.statistics.ChargeReminders++
	c.setBuzzer(true)
	c.setLED(hardware.ChargingLEDPin, true)
	c.beepTimer.Start(toMillis(c.config.Alerts.ChargeReminderBeep))
}

func (c *PaprController) onBeepTimer() {
	c.setBuzzer(false)
	c.setLED(hardware.ChargingLEDPin, false)
}
